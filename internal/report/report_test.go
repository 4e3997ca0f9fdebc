package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/graphdiff/internal/core/model"
)

func TestSaveAndLoadResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	doc := &model.ResultsDocument{
		Metadata: model.ResultsMetadata{
			RunID:              "run-1",
			SourceFile:         "gt.yaml",
			ExecutionTimestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			Backend:            "age",
			TotalQueries:       1,
			SuccessfulQueries:  1,
		},
		Queries: []model.QueryResult{{
			QueryID:  "Q1",
			Status:   model.StatusSuccess,
			RowCount: 1,
			Columns:  []string{"n"},
			Results:  []model.RawRow{{"n": map[string]any{"id": 844424930131969, "label": "Device"}}},
		}},
	}

	require.NoError(t, SaveResults(path, doc))
	loaded, err := LoadResults(path)
	require.NoError(t, err)

	assert.Equal(t, doc.Metadata, loaded.Metadata)
	q, ok := loaded.Lookup("Q1")
	require.True(t, ok)
	n := q.Results[0]["n"].(map[string]any)
	assert.Equal(t, json.Number("844424930131969"), n["id"])
}

func TestParseResults_BareList(t *testing.T) {
	doc, err := ParseResults([]byte(`[
		{"query_id": "Q1", "results": [{"n": 1}]},
		{"query_id": "Q2", "results": [], "error": "syntax error at or near MATCH"}
	]`))
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Metadata.TotalQueries)
	assert.Equal(t, 1, doc.Metadata.SuccessfulQueries)
	assert.Equal(t, model.StatusSuccess, doc.Queries[0].Status)
	assert.Equal(t, 1, doc.Queries[0].RowCount)
	assert.Equal(t, model.StatusError, doc.Queries[1].Status)
	assert.Equal(t, "syntax error at or near MATCH", doc.Queries[1].Failure())
}

func TestParseResults_Invalid(t *testing.T) {
	_, err := ParseResults([]byte(`{"queries": `))
	assert.ErrorContains(t, err, "failed to parse results")
}

func TestLoadResults_SourceFileDefaultsToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"query_id": "Q1", "results": []}]`), 0o644))

	doc, err := LoadResults(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Metadata.SourceFile)
}

func TestSaveAndLoadReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r := &model.Report{
		RunID:       "run-2",
		GeneratedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		GTFile:      "gt.json",
		LLMFile:     "llm.json",
		Comparisons: []model.Comparison{
			{QueryID: "Q1", Metrics: &model.ComparisonMetrics{
				QueryID: "Q1", NodesGT: 2, NodesLLM: 2, EdgesGT: 1,
				MissingLLM: model.Elements{Edges: []model.EdgeRecord{{Start: "urn:farm:A", End: "urn:dev:1", Type: "hasDevice"}}},
			}},
			{QueryID: "Q2", Error: &model.QueryError{LLM: "query not found"}},
		},
	}

	require.NoError(t, SaveReport(path, r))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"missing_llm"`)
	assert.Contains(t, string(raw), `"llm": "query not found"`)

	loaded, err := LoadReport(path)
	require.NoError(t, err)
	require.Len(t, loaded.Comparisons, 2)
	assert.Equal(t, []model.EdgeRecord{{Start: "urn:farm:A", End: "urn:dev:1", Type: "hasDevice"}}, loaded.Comparisons[0].Metrics.MissingLLM.Edges)
	assert.Nil(t, loaded.Comparisons[0].Error)
	assert.Equal(t, "query not found", loaded.Comparisons[1].Error.LLM)
	assert.Nil(t, loaded.Comparisons[1].Metrics)
}
