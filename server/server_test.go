package server

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	openai "github.com/openai/openai-go/v3"

	"github.com/arlolabs/arlo/agent"
	toolx "github.com/arlolabs/arlo/agent/tool"
	"github.com/arlolabs/arlo/export"
	groqx "github.com/arlolabs/arlo/pkg/groq"
	"github.com/arlolabs/arlo/workout"
)

type scriptedCompleter struct {
	replies []string
	calls   int
}

func (s *scriptedCompleter) Complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	if s.calls >= len(s.replies) {
		return nil, fmt.Errorf("no scripted reply left at call=%d", s.calls+1)
	}
	reply := s.replies[s.calls]
	s.calls++
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: "assistant", Content: reply}},
		},
	}, nil
}

func newTestServer(t *testing.T, replies ...string) (*Server, *export.Manager) {
	t.Helper()

	store, err := workout.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	exporter, err := export.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	catalog, err := toolx.NewCatalog(store, exporter)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	assistant, err := agent.New(nil, catalog,
		groqx.Config{Model: "llama-3.3-70b-versatile"},
		agent.WithCompleter(&scriptedCompleter{replies: replies}),
	)
	if err != nil {
		t.Fatalf("new assistant: %v", err)
	}

	srv, err := New(assistant, exporter, Config{ListenAddr: ":0"})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, exporter
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestChatRoundTrip(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "Hi! Ready to log a workout?")

	body := strings.NewReader(`{"session_id":"u1","message":"hello"}`)
	req := httptest.NewRequest("POST", "/chat", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	payload, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(payload), "Ready to log a workout") {
		t.Fatalf("unexpected body: %s", payload)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	body := strings.NewReader(`{"session_id":"u1","message":""}`)
	req := httptest.NewRequest("POST", "/chat", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDownload(t *testing.T) {
	t.Parallel()

	srv, exporter := newTestServer(t)

	path, err := exporter.SaveText("deadlift day")
	if err != nil {
		t.Fatalf("save text: %v", err)
	}

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/files/"+filepath.Base(path), nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	payload, _ := io.ReadAll(resp.Body)
	if string(payload) != "deadlift day" {
		t.Fatalf("unexpected body: %s", payload)
	}
}

func TestDownloadUnknownFile(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/files/nope.txt", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
