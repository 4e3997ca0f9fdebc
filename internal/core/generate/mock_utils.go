package generate

import (
	"context"
	"strings"
	"sync"
)

// MockLLMClient answers prompts containing a key with the mapped response.
type MockLLMClient struct {
	Responses map[string]string
	Response  string
	Err       error

	mu      sync.Mutex
	Prompts []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	for key, resp := range m.Responses {
		if strings.Contains(prompt, key) {
			return resp, nil
		}
	}
	return m.Response, nil
}
