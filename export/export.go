// Package export renders validated workout records and assistant-produced
// documents into files the chat layer can hand back to the user. All
// formatting lives here; the workout store never formats anything.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Manager writes generated documents into a single export directory with
// collision-free names.
type Manager struct {
	dir string
}

func NewManager(dir string) (*Manager, error) {
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Join(os.TempDir(), "arlo_files")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the directory documents are written to.
func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) newPath(ext string) string {
	return filepath.Join(m.dir, uuid.NewString()+ext)
}

// SaveText writes plain text and returns the file path.
func (m *Manager) SaveText(content string) (string, error) {
	return m.writeFile(".txt", content)
}

// SaveMarkdown writes Markdown content and returns the file path.
func (m *Manager) SaveMarkdown(content string) (string, error) {
	return m.writeFile(".md", content)
}

func (m *Manager) writeFile(ext, content string) (string, error) {
	path := m.newPath(ext)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s file: %w", ext, err)
	}
	log.Debug().Str("path", path).Msg("document exported")
	return path, nil
}
