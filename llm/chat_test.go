package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatTestServer(t *testing.T, status int, body string, capture *chatRequest) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content-type = %q", got)
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decoding request body: %v", err)
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestOpenRouterBackend_RequestShape(t *testing.T) {
	var captured chatRequest
	srv := chatTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`, &captured)
	defer srv.Close()

	cfg := NewConfig()
	cfg.Set("base_url", srv.URL)
	cfg.Set("api_key", "k123")
	cfg.Set("model", "some/model")
	cfg.Set("temperature", 0.2)
	cfg.Set("max_tokens", 64)

	b := NewOpenRouterBackend(cfg)
	got, err := b.Generate(context.Background(), []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if got != "hello there" {
		t.Errorf("reply = %q, want %q", got, "hello there")
	}

	if captured.Model != "some/model" {
		t.Errorf("model = %q", captured.Model)
	}
	if captured.Temperature != 0.2 {
		t.Errorf("temperature = %v", captured.Temperature)
	}
	if captured.MaxTokens != 64 {
		t.Errorf("max_tokens = %d", captured.MaxTokens)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("messages = %v, want 2", captured.Messages)
	}
	if captured.Messages[1].Role != RoleUser || captured.Messages[1].Content != "hi" {
		t.Errorf("messages[1] = %v", captured.Messages[1])
	}
}

func TestOpenRouterBackend_AuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	cfg := NewConfig()
	cfg.Set("base_url", srv.URL)
	cfg.Set("api_key", "secret-key")

	b := NewOpenRouterBackend(cfg)
	if _, err := b.Generate(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("authorization = %q, want bearer token", gotAuth)
	}
}

func TestOpenRouterBackend_Defaults(t *testing.T) {
	var captured chatRequest
	srv := chatTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"content":"ok"}}]}`, &captured)
	defer srv.Close()

	cfg := NewConfig()
	cfg.Set("base_url", srv.URL)

	b := NewOpenRouterBackend(cfg)
	if _, err := b.Generate(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	if captured.Model != "openrouter/gpt-4o-mini" {
		t.Errorf("default model = %q", captured.Model)
	}
	if captured.Temperature != 0.7 {
		t.Errorf("default temperature = %v", captured.Temperature)
	}
	if captured.MaxTokens != 512 {
		t.Errorf("default max_tokens = %d", captured.MaxTokens)
	}
}

func TestChatBackend_Non2xxIsBackendError(t *testing.T) {
	srv := chatTestServer(t, http.StatusTooManyRequests, `{"error":"slow down"}`, nil)
	defer srv.Close()

	cfg := NewConfig()
	cfg.Set("base_url", srv.URL)

	b := NewTogetherBackend(cfg)
	_, err := b.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

	var bErr *BackendError
	if !errors.As(err, &bErr) {
		t.Fatalf("got %v, want a BackendError", err)
	}
	if bErr.Backend != TogetherName {
		t.Errorf("backend tag = %q, want %q", bErr.Backend, TogetherName)
	}
}

func TestChatBackend_MalformedBodyIsBackendError(t *testing.T) {
	srv := chatTestServer(t, http.StatusOK, `not json at all`, nil)
	defer srv.Close()

	cfg := NewConfig()
	cfg.Set("base_url", srv.URL)

	b := NewOpenRouterBackend(cfg)
	_, err := b.Generate(context.Background(), nil)

	var bErr *BackendError
	if !errors.As(err, &bErr) {
		t.Fatalf("got %v, want a BackendError", err)
	}
}

func TestChatBackend_EmptyChoicesIsBackendError(t *testing.T) {
	srv := chatTestServer(t, http.StatusOK, `{"choices":[]}`, nil)
	defer srv.Close()

	cfg := NewConfig()
	cfg.Set("base_url", srv.URL)

	b := NewOpenRouterBackend(cfg)
	_, err := b.Generate(context.Background(), nil)

	var bErr *BackendError
	if !errors.As(err, &bErr) {
		t.Fatalf("got %v, want a BackendError", err)
	}
}

func TestChatBackend_ConnectionRefusedIsBackendError(t *testing.T) {
	cfg := NewConfig()
	// Port 1 is never listening.
	cfg.Set("base_url", "http://127.0.0.1:1/v1/chat/completions")

	b := NewOpenRouterBackend(cfg)
	_, err := b.Generate(context.Background(), nil)

	var bErr *BackendError
	if !errors.As(err, &bErr) {
		t.Fatalf("got %v, want a BackendError", err)
	}
}
