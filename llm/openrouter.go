package llm

const OpenRouterName = "openrouter"

const openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// NewOpenRouterBackend builds a backend against the OpenRouter chat
// completions API. Recognized config keys: api_key, model, temperature,
// max_tokens, base_url, timeout_seconds.
func NewOpenRouterBackend(cfg *Config) Backend {
	return newChatBackend(OpenRouterName, openRouterURL, "openrouter/gpt-4o-mini", cfg)
}
