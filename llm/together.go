package llm

const TogetherName = "together"

const togetherURL = "https://api.together.xyz/v1/chat/completions"

// NewTogetherBackend builds a backend against the Together chat completions
// API. Same config keys as the OpenRouter backend.
func NewTogetherBackend(cfg *Config) Backend {
	return newChatBackend(TogetherName, togetherURL, "mistralai/Mixtral-8x7B-Instruct-v0.1", cfg)
}
