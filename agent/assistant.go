// Package agent runs the chat loop: it sends the conversation to the model,
// dispatches the tool calls the model asks for, and returns the final reply
// together with any files the tools produced.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	openai "github.com/openai/openai-go/v3"
	"github.com/rs/zerolog/log"

	contractx "github.com/arlolabs/arlo/agent/contract"
	promptx "github.com/arlolabs/arlo/agent/prompt"
	toolx "github.com/arlolabs/arlo/agent/tool"
	groqx "github.com/arlolabs/arlo/pkg/groq"
	transcriptx "github.com/arlolabs/arlo/pkg/transcript"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

// maxToolRounds bounds how many completion/tool-dispatch cycles one user
// turn may trigger.
const maxToolRounds = 8

// Completer is the one model call the assistant needs; it exists so tests
// can drive the loop without a network.
type Completer interface {
	Complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

type groqCompleter struct {
	client *openai.Client
}

func (g groqCompleter) Complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return g.client.Chat.Completions.New(ctx, params)
}

// Reply is one finished assistant turn.
type Reply struct {
	Text  string   `json:"text"`
	Files []string `json:"files,omitempty"`
}

// Assistant holds the model client, the tool catalog, and per-session
// conversation history. One user turn at a time; the mutex only guards
// against accidental concurrent HTTP calls for the same process.
type Assistant struct {
	completer   Completer
	catalog     *toolx.Catalog
	transcripts *transcriptx.Store

	model       string
	temperature float64
	maxTokens   int64
	system      string

	mu       sync.Mutex
	sessions map[string][]openai.ChatCompletionMessageParamUnion
}

type Option func(*Assistant)

// WithTranscripts persists each session's messages after every turn and
// resumes them on first contact.
func WithTranscripts(store *transcriptx.Store) Option {
	return func(a *Assistant) { a.transcripts = store }
}

// WithCompleter swaps the model backend; used by tests.
func WithCompleter(c Completer) Option {
	return func(a *Assistant) { a.completer = c }
}

func New(client *openai.Client, catalog *toolx.Catalog, cfg groqx.Config, opts ...Option) (*Assistant, error) {
	if catalog == nil {
		return nil, errors.New("tool catalog is required")
	}

	a := &Assistant{
		catalog:     catalog,
		model:       strings.TrimSpace(cfg.Model),
		temperature: cfg.Temperature,
		maxTokens:   int64(cfg.MaxCompletionToken),
		system:      promptx.System(),
		sessions:    make(map[string][]openai.ChatCompletionMessageParamUnion),
	}
	if client != nil {
		a.completer = groqCompleter{client: client}
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	if a.completer == nil {
		return nil, errors.New("model client is required")
	}
	if a.model == "" {
		return nil, errors.New("model name is required")
	}
	return a, nil
}

// HandleMessage runs one user turn to completion, dispatching tool calls
// until the model produces a plain reply.
func (a *Assistant) HandleMessage(ctx context.Context, sessionID, text string) (*Reply, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidMessage
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	messages, err := a.history(sessionID)
	if err != nil {
		return nil, err
	}
	messages = append(messages, openai.UserMessage(text))

	var files []string
	reply := ""

	for round := 0; ; round++ {
		if round >= maxToolRounds {
			return nil, fmt.Errorf("%w: tool rounds exceeded %d", contractx.ErrSchemaViolation, maxToolRounds)
		}

		completion, err := a.completer.Complete(ctx, openai.ChatCompletionNewParams{
			Model:               a.model,
			Messages:            messages,
			Tools:               a.catalog.Specs(),
			Temperature:         openai.Float(a.temperature),
			MaxCompletionTokens: openai.Int(a.maxTokens),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
		}
		if len(completion.Choices) == 0 {
			return nil, fmt.Errorf("%w: completion has no choices", contractx.ErrSchemaViolation)
		}

		message := completion.Choices[0].Message
		messages = append(messages, message.ToParam())

		if len(message.ToolCalls) == 0 {
			reply = strings.TrimSpace(message.Content)
			break
		}

		for _, call := range message.ToolCalls {
			result, callFiles := a.dispatch(ctx, call)
			messages = append(messages, openai.ToolMessage(result, call.ID))
			files = append(files, callFiles...)
		}
	}

	if reply == "" {
		reply = "Done."
	}

	a.sessions[sessionID] = messages
	if a.transcripts != nil {
		if err := a.transcripts.Save(sessionID, messages); err != nil {
			log.Warn().Err(err).Str("session", sessionID).Msg("failed to persist transcript")
		}
	}

	return &Reply{Text: reply, Files: files}, nil
}

// history returns the in-memory conversation for a session, seeding it from
// the transcript store (if configured) or from the system prompt.
func (a *Assistant) history(sessionID string) ([]openai.ChatCompletionMessageParamUnion, error) {
	if messages, ok := a.sessions[sessionID]; ok {
		return messages, nil
	}

	if a.transcripts != nil {
		messages, err := a.transcripts.Load(sessionID)
		if err != nil {
			return nil, err
		}
		if len(messages) > 0 {
			return messages, nil
		}
	}

	return []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(a.system)}, nil
}

// dispatch executes one tool call and renders its outcome as the tool
// message content. Failures stay in-band so the model can correct course.
func (a *Assistant) dispatch(ctx context.Context, call openai.ChatCompletionMessageToolCallUnion) (string, []string) {
	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return fmt.Sprintf("Error: invalid arguments for %s: %v", call.Function.Name, err), nil
		}
	}

	result, err := a.catalog.Execute(ctx, contractx.ToolRequest{
		ID:   call.ID,
		Tool: call.Function.Name,
		Args: args,
	})
	if err != nil {
		log.Error().Err(err).Str("tool", call.Function.Name).Msg("tool dispatch failed")
		return fmt.Sprintf("Error: tool %s failed", call.Function.Name), nil
	}

	if result.Error != "" {
		return result.Error, nil
	}

	content, err := json.Marshal(result.Result)
	if err != nil {
		return fmt.Sprintf("Error: could not encode result of %s", call.Function.Name), nil
	}

	var files []string
	if result.File != "" {
		files = append(files, result.File)
	}
	return string(content), files
}
