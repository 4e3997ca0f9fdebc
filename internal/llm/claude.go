package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

const claudeMaxTokens = 2048

type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

func NewClaudeClient(apiKey, model, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeClient{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
		MaxTokens: claudeMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("claude messages: %w", err)
	}

	var sb strings.Builder
	for _, content := range resp.Content {
		if content.Text != nil {
			sb.WriteString(*content.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
