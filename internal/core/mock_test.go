package core

import (
	"context"
	"sync"

	"github.com/agenthands/graphdiff/internal/core/model"
	"github.com/agenthands/graphdiff/internal/driver"
)

// MockDriver answers queries from a fixed table keyed by query text.
type MockDriver struct {
	Rows   map[string][]model.RawRow
	Errs   map[string]error
	Block  bool
	mu     sync.Mutex
	Called []string
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string) (*driver.Result, error) {
	m.mu.Lock()
	m.Called = append(m.Called, query)
	m.mu.Unlock()

	if m.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err, ok := m.Errs[query]; ok {
		return nil, err
	}
	rows := m.Rows[query]
	var cols []string
	if len(rows) > 0 {
		for k := range rows[0] {
			cols = append(cols, k)
		}
	}
	return &driver.Result{Columns: cols, Rows: rows}, nil
}

func (m *MockDriver) Backend() string { return "mock" }

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func node(id any, label, urn string) map[string]any {
	return map[string]any{"id": id, "label": label, "properties": map[string]any{"id": urn}}
}

func edge(id, start, end any, label string) map[string]any {
	return map[string]any{"id": id, "label": label, "start_id": start, "end_id": end, "properties": map[string]any{}}
}
