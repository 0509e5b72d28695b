package llm

import "context"

const EchoName = "echo"

// EchoBackend replies with a prefixed copy of the last message's content.
// No network involved; useful for wiring checks and tests.
type EchoBackend struct {
	prefix string
}

func NewEchoBackend(cfg *Config) Backend {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &EchoBackend{prefix: cfg.GetString("prefix", "ECHO:")}
}

func (b *EchoBackend) Generate(ctx context.Context, messages []Message) (string, error) {
	_ = ctx
	if len(messages) == 0 {
		return b.prefix, nil
	}
	return b.prefix + messages[len(messages)-1].Content, nil
}
