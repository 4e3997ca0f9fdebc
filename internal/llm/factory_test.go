package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/graphdiff/internal/config"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	c, err := NewClient(ctx, config.LLMConfig{Provider: "openai", Model: "gpt-4o-mini", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "Claude", Model: "claude-3-5-haiku-latest", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &ClaudeClient{}, c)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "ollama", Model: "llama3"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	_, err = NewClient(ctx, config.LLMConfig{Provider: "mystery"}, nil)
	assert.ErrorContains(t, err, "unsupported llm provider")
}

func TestOllamaBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:11434/v1", OllamaBaseURL(""))
	assert.Equal(t, "http://gpu:11434/v1", OllamaBaseURL("http://gpu:11434/"))
	assert.Equal(t, "http://gpu:11434/v1", OllamaBaseURL("http://gpu:11434/v1"))
}
