package factory

import (
	"fmt"

	"bi-copilot-be/pkg/llm"
	"bi-copilot-be/pkg/llm/groq"
	"bi-copilot-be/pkg/llm/ollama"
)

type ProviderConfig struct {
	Provider      string // "groq" or "ollama"
	ModelName     string
	GroqAPIKey    string
	GroqBaseURL   string
	OllamaBaseURL string
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "groq":
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("groq provider requires an API key")
		}
		baseURL := cfg.GroqBaseURL
		if baseURL == "" {
			baseURL = "https://api.groq.com/openai/v1" // Default
		}
		return groq.NewGroqProvider(baseURL, cfg.GroqAPIKey, cfg.ModelName), nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.ModelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
