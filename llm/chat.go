package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// chatBackend speaks the OpenAI-compatible chat completions wire format.
// OpenRouter and Together both expose it, so the two backends share this
// implementation and differ only in endpoint and defaults.
type chatBackend struct {
	name         string
	url          string
	defaultModel string
	cfg          *Config
	client       *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func newChatBackend(name, url, defaultModel string, cfg *Config) *chatBackend {
	if cfg == nil {
		cfg = NewConfig()
	}

	timeout := time.Duration(cfg.GetInt("timeout_seconds", 60)) * time.Second

	return &chatBackend{
		name:         name,
		url:          cfg.GetString("base_url", url),
		defaultModel: defaultModel,
		cfg:          cfg,
		client:       &http.Client{Timeout: timeout},
	}
}

func (b *chatBackend) Generate(ctx context.Context, messages []Message) (string, error) {
	payload := chatRequest{
		Model:       b.cfg.GetString("model", b.defaultModel),
		Messages:    make([]chatMessage, 0, len(messages)),
		Temperature: b.cfg.GetFloat("temperature", 0.7),
		MaxTokens:   b.cfg.GetInt("max_tokens", 512),
	}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &BackendError{Backend: b.name, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return "", &BackendError{Backend: b.name, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+b.cfg.GetString("api_key", ""))
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", &BackendError{Backend: b.name, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BackendError{Backend: b.name, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &BackendError{
			Backend: b.name,
			Err:     fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(raw), 200)),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &BackendError{Backend: b.name, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &BackendError{Backend: b.name, Err: fmt.Errorf("response contains no choices")}
	}

	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
