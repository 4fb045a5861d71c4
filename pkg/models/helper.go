package models

import "fmt"

// ProviderOptions carry the credentials and endpoints each provider needs.
type ProviderOptions struct {
	APIKey  string
	BaseURL string
}

// NewProvider constructs a Provider by name: openai|anthropic|ollama|dummy.
// For "openai", BaseURL may point at any OpenAI-compatible endpoint (Groq).
func NewProvider(provider string, opts ProviderOptions) (Provider, error) {
	switch provider {
	case "openai", "groq":
		return NewOpenAILLM(opts.APIKey, opts.BaseURL), nil
	case "anthropic", "claude":
		return NewAnthropicLLM(opts.APIKey), nil
	case "ollama":
		return NewOllamaLLM(opts.BaseURL)
	case "dummy":
		return NewDummyLLM(), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
