package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"gopkg.in/yaml.v3"
)

// Store reads and writes one YAML transcript file per chat session.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("transcript directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create transcript directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Save(sessionID string, messages []openai.ChatCompletionMessageParamUnion) error {
	session := newSessionFromMessages(messages)
	data, err := yaml.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	if err := os.WriteFile(s.path(sessionID), data, 0o640); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// Load returns the stored messages for a session, or nil when the session
// has no transcript yet.
func (s *Store) Load(sessionID string) ([]openai.ChatCompletionMessageParamUnion, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	var session Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal transcript: %w", err)
	}
	return session.toMessages(), nil
}

func (s *Store) path(sessionID string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, sessionID)
	return filepath.Join(s.dir, safe+".yaml")
}
