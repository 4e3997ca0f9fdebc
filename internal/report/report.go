// Package report persists results documents and comparison reports as JSON.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/agenthands/graphdiff/internal/core/model"
)

// SaveResults writes a results document as indented JSON.
func SaveResults(path string, doc *model.ResultsDocument) error {
	return writeJSON(path, doc)
}

// LoadResults reads a results document. A bare list of
// `{query_id, results, error?}` entries is accepted as well; entries with an
// error are marked failed and the rest successful.
func LoadResults(path string) (*model.ResultsDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file '%s': %w", path, err)
	}
	doc, err := ParseResults(data)
	if err != nil {
		return nil, fmt.Errorf("results file '%s': %w", path, err)
	}
	if doc.Metadata.SourceFile == "" {
		doc.Metadata.SourceFile = path
	}
	return doc, nil
}

// ParseResults decodes either results layout.
func ParseResults(data []byte) (*model.ResultsDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []model.QueryResult
		if err := decodeJSON(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to parse results: %w", err)
		}
		doc := &model.ResultsDocument{Queries: list}
		for i := range doc.Queries {
			q := &doc.Queries[i]
			if q.Status == "" {
				if q.Error != "" {
					q.Status = model.StatusError
				} else {
					q.Status = model.StatusSuccess
				}
			}
			if q.Results == nil {
				q.Results = []model.RawRow{}
			}
			q.RowCount = len(q.Results)
			if q.Succeeded() {
				doc.Metadata.SuccessfulQueries++
			}
		}
		doc.Metadata.TotalQueries = len(doc.Queries)
		return doc, nil
	}

	var doc model.ResultsDocument
	if err := decodeJSON(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}
	return &doc, nil
}

// SaveReport writes a comparison report as indented JSON.
func SaveReport(path string, r *model.Report) error {
	return writeJSON(path, r)
}

// LoadReport reads a report written by SaveReport.
func LoadReport(path string) (*model.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report '%s': %w", path, err)
	}
	var r model.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report '%s': %w", path, err)
	}
	return &r, nil
}

// SaveJSON writes any value as indented JSON.
func SaveJSON(path string, v any) error {
	return writeJSON(path, v)
}

// decodeJSON keeps numbers as json.Number so large internal ids survive intact.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
