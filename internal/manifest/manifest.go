// Package manifest reads and writes query-set manifests: YAML files listing
// query ids with their query text.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agenthands/graphdiff/internal/core/model"
)

var (
	ErrNoQueries      = errors.New("no queries found in manifest")
	ErrQueryNotFound  = errors.New("query not found")
	listKeys          = []string{"query_set", "queries", "query_list", "results", "responses", "responses_results"}
	textFields        = []string{"query", "response_structure", "response"}
	descriptionFields = []string{"description", "question"}
)

// Load reads a manifest in any of the accepted layouts: a list of items, a
// list of single-key `Qn:` mappings, a mapping holding the list under a
// well-known key, or a single item.
func Load(path string) ([]model.QueryItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest '%s': %w", path, err)
	}
	items, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest '%s': %w", path, err)
	}
	return items, nil
}

// Parse decodes manifest YAML.
func Parse(data []byte) ([]model.QueryItem, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var entries []any
	switch v := doc.(type) {
	case []any:
		entries = v
	case map[string]any:
		entries = []any{v}
		for _, key := range listKeys {
			if list, ok := v[key].([]any); ok {
				entries = list
				break
			}
		}
	}

	var items []model.QueryItem
	for i, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if id, inner, ok := keyedEntry(m); ok {
			items = append(items, itemFrom(id, inner))
			continue
		}
		id := stringField(m, "id")
		if id == "" {
			id = stringField(m, "query_id")
		}
		if id == "" {
			id = fmt.Sprintf("Q%d", i+1)
		}
		items = append(items, itemFrom(id, m))
	}

	if len(items) == 0 {
		return nil, ErrNoQueries
	}
	return items, nil
}

// keyedEntry recognises the `- Q1: {query: ...}` layout.
func keyedEntry(m map[string]any) (string, map[string]any, bool) {
	if len(m) != 1 {
		return "", nil, false
	}
	for k, v := range m {
		inner, ok := v.(map[string]any)
		if ok && strings.HasPrefix(k, "Q") {
			return k, inner, true
		}
	}
	return "", nil, false
}

func itemFrom(id string, m map[string]any) model.QueryItem {
	item := model.QueryItem{ID: id}
	for _, f := range descriptionFields {
		if s := stringField(m, f); s != "" {
			item.Description = s
			break
		}
	}
	for _, f := range textFields {
		switch v := m[f].(type) {
		case string:
			if item.Query == "" {
				item.Query = strings.TrimSpace(v)
			}
		case map[string]any:
			if item.Query == "" {
				item.Query = strings.TrimSpace(stringField(v, "query"))
			}
			if item.Reasoning == "" {
				item.Reasoning = stringField(v, "reasoning")
			}
		}
	}
	if item.Reasoning == "" {
		item.Reasoning = stringField(m, "reasoning")
	}
	return item
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Filter keeps only the item with the given id. An empty id keeps everything.
func Filter(items []model.QueryItem, id string) ([]model.QueryItem, error) {
	if id == "" {
		return items, nil
	}
	for _, item := range items {
		if item.ID == id {
			return []model.QueryItem{item}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrQueryNotFound, id)
}

type savedManifest struct {
	Responses []model.QueryItem `yaml:"responses"`
}

// Save writes items as `{responses: [...]}`, which Load reads back.
func Save(path string, items []model.QueryItem) error {
	data, err := yaml.Marshal(savedManifest{Responses: items})
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest '%s': %w", path, err)
	}
	return nil
}
