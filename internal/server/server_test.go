package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/graphdiff/internal/core"
	"github.com/agenthands/graphdiff/internal/core/generate"
	"github.com/agenthands/graphdiff/internal/core/model"
	"github.com/agenthands/graphdiff/internal/driver"
	"github.com/agenthands/graphdiff/internal/metrics"
)

type stubDriver struct {
	rows     []model.RawRow
	err      error
	closeErr error
	closed   bool
}

func (d *stubDriver) ExecuteQuery(ctx context.Context, query string) (*driver.Result, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &driver.Result{Columns: []string{"m", "r", "n"}, Rows: d.rows}, nil
}

func (d *stubDriver) Backend() string { return "stub" }
func (d *stubDriver) Close(ctx context.Context) error {
	d.closed = true
	return d.closeErr
}

var farmRow = model.RawRow{
	"m": map[string]any{"id": 1, "label": "AgriFarm", "properties": map[string]any{"id": "urn:farm:A"}},
	"r": map[string]any{"id": 3, "label": "hasDevice", "start_id": 1, "end_id": 7, "properties": map[string]any{}},
	"n": map[string]any{"id": 7, "label": "Device", "properties": map[string]any{"id": "urn:dev:1"}},
}

func setup(d driver.Executor, gen *generate.Generator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	reg := metrics.NewRegistry()
	ev := core.NewEvaluator(d, core.Options{Workers: 2, Metrics: reg})
	return New(ev, gen, reg, nil).SetupRouter()
}

func post(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := setup(&stubDriver{}, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","backend":"stub","generator":false}`, w.Body.String())
}

func TestCompare(t *testing.T) {
	r := setup(nil, nil)
	body := map[string]any{
		"gt_file":  "gt.json",
		"llm_file": "llm.json",
		"gt": model.ResultsDocument{Queries: []model.QueryResult{
			{QueryID: "Q1", Status: model.StatusSuccess, Results: []model.RawRow{farmRow}},
			{QueryID: "Q2", Status: model.StatusError, Error: "boom", Results: []model.RawRow{}},
		}},
		"llm": model.ResultsDocument{Queries: []model.QueryResult{
			{QueryID: "Q1", Status: model.StatusSuccess, Results: []model.RawRow{{"n": farmRow["n"]}}},
			{QueryID: "Q2", Status: model.StatusSuccess, Results: []model.RawRow{}},
		}},
	}

	w := post(r, "/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report model.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "gt.json", report.GTFile)
	require.Len(t, report.Comparisons, 2)
	require.NotNil(t, report.Comparisons[0].Metrics)
	assert.Equal(t, []model.NodeRecord{{ID: "urn:farm:A", Label: "AgriFarm"}}, report.Comparisons[0].Metrics.MissingLLM.Nodes)
	assert.Equal(t, &model.QueryError{GT: "boom"}, report.Comparisons[1].Error)
}

func TestCompare_UnknownQueryID(t *testing.T) {
	r := setup(nil, nil)
	w := post(r, "/compare", map[string]any{
		"query_id": "Q9",
		"gt":       model.ResultsDocument{},
		"llm":      model.ResultsDocument{},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompare_BadRequest(t *testing.T) {
	r := setup(nil, nil)
	w := post(r, "/compare", map[string]any{"gt_file": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompareRows(t *testing.T) {
	r := setup(nil, nil)
	w := post(r, "/compare/rows", map[string]any{
		"query_id": "Q1",
		"gt_rows":  []model.RawRow{farmRow},
		"llm_rows": []model.RawRow{farmRow},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Q1", got["query_id"])
	assert.Equal(t, float64(1), got["edges_gt"])
	assert.Equal(t, map[string]any{"nodes": []any{}, "edges": []any{}}, got["missing_llm"])
}

func TestExecute(t *testing.T) {
	r := setup(&stubDriver{rows: []model.RawRow{farmRow}}, nil)
	w := post(r, "/execute", map[string]any{"query_id": "Q1", "query": "MATCH (n) RETURN n", "side": "llm"})
	require.Equal(t, http.StatusOK, w.Code)

	var res model.QueryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, model.StatusSuccess, res.Status)
	assert.Equal(t, 1, res.RowCount)

	metricsRec := httptest.NewRecorder()
	r.ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, metricsRec.Body.String(), `graphdiff_queries_total{side="llm",status="success"} 1`)
}

func TestExecute_DatabaseError(t *testing.T) {
	r := setup(&stubDriver{err: errors.New("relation does not exist")}, nil)
	w := post(r, "/execute", map[string]any{"query_id": "Q1", "query": "MATCH (n) RETURN n"})
	require.Equal(t, http.StatusOK, w.Code)

	var res model.QueryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, model.StatusError, res.Status)
	assert.Contains(t, res.Error, "relation does not exist")
}

func TestExecute_NoDatabase(t *testing.T) {
	r := setup(nil, nil)
	w := post(r, "/execute", map[string]any{"query": "MATCH (n) RETURN n"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = post(r, "/export", map[string]any{"query": "MATCH (n) RETURN n"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExport(t *testing.T) {
	r := setup(&stubDriver{rows: []model.RawRow{farmRow, farmRow}}, nil)
	w := post(r, "/export", map[string]any{"query": "MATCH p=()-[]->() RETURN p"})
	require.Equal(t, http.StatusOK, w.Code)

	var out model.GraphExport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out.Nodes, 2)
	assert.Len(t, out.Edges, 1)
	assert.Equal(t, "hasDevice", out.Edges[0].Type)
}

func TestGenerate(t *testing.T) {
	mock := &generate.MockLLMClient{Response: `{"query": "MATCH (d:Device) RETURN d", "reasoning": "all devices"}`}
	gen := generate.NewGenerator(mock, "%s %s", "schema", 1, nil)
	r := setup(nil, gen)

	w := post(r, "/generate", map[string]any{"id": "Q1", "question": "list devices"})
	require.Equal(t, http.StatusOK, w.Code)

	var item model.QueryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "MATCH (d:Device) RETURN d", item.Query)
	assert.Equal(t, "list devices", item.Description)
}

func TestGenerate_NoLLM(t *testing.T) {
	r := setup(nil, nil)
	w := post(r, "/generate", map[string]any{"question": "list devices"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestClose(t *testing.T) {
	d := &stubDriver{closeErr: errors.New("pool busy")}
	srv := New(core.NewEvaluator(d, core.Options{}), nil, nil, nil)

	err := srv.Close(context.Background())
	assert.True(t, d.closed)
	assert.EqualError(t, err, "pool busy")

	assert.NoError(t, New(core.NewEvaluator(nil, core.Options{}), nil, nil, nil).Close(context.Background()))
}
