package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agenthands/graphdiff/internal/config"
)

func NewClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (LLMClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return c, nil

	case "claude":
		return NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "ollama":
		baseURL := OllamaBaseURL(cfg.BaseURL)
		logger.Info("using ollama through the openai-compatible api", "base_url", baseURL, "model", cfg.Model)

		// Ollama ignores the key but the client requires one.
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		return NewOpenAIClient(apiKey, cfg.Model, baseURL), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}

// OllamaBaseURL points a bare Ollama address at its /v1 API.
func OllamaBaseURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL += "/v1"
	}
	return baseURL
}
