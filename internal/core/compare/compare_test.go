package compare

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/graphdiff/internal/core/extraction"
	"github.com/agenthands/graphdiff/internal/core/model"
)

var (
	farm = map[string]any{"id": 1, "label": "AgriFarm", "properties": map[string]any{"id": "urn:farm:A"}}
	dev  = map[string]any{"id": 7, "label": "Device", "properties": map[string]any{"id": "urn:dev:1"}}
)

func hasDevice(id any) map[string]any {
	return map[string]any{"id": id, "label": "hasDevice", "start_id": 1, "end_id": 7, "properties": map[string]any{}}
}

func TestGraphs_IdenticalNode(t *testing.T) {
	gt := extraction.Extract([]model.RawRow{{"n": dev}})
	llm := extraction.Extract([]model.RawRow{{"n": dev}})

	m := Graphs("Q1", gt, llm)

	assert.Equal(t, 1, m.NodesGT)
	assert.Equal(t, 1, m.NodesLLM)
	assert.Empty(t, m.MissingLLM.Nodes)
	assert.Empty(t, m.ExtraLLM.Nodes)
	assert.True(t, m.Match())
}

func TestGraphs_MissingEdge(t *testing.T) {
	gt := extraction.Extract([]model.RawRow{{"m": farm, "r": hasDevice(3), "n": dev}})
	llm := extraction.Extract([]model.RawRow{{"m": farm, "n": dev}})

	m := Graphs("Q2", gt, llm)

	assert.Equal(t, 1, m.EdgesGT)
	assert.Equal(t, 0, m.EdgesLLM)
	assert.Equal(t, []model.EdgeRecord{{Start: "urn:farm:A", End: "urn:dev:1", Type: "hasDevice"}}, m.MissingLLM.Edges)
	assert.False(t, m.Match())

	data, err := json.Marshal(model.Comparison{QueryID: "Q2", Metrics: &m})
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	missing := decoded["missing_llm"].(map[string]any)
	assert.Equal(t, []any{[]any{"urn:farm:A", "urn:dev:1", "hasDevice"}}, missing["edges"])
	assert.Equal(t, []any{}, missing["nodes"])
}

func TestGraphs_DifferentInternalEdgeIDsMatch(t *testing.T) {
	gt := extraction.Extract([]model.RawRow{{"m": farm, "r": hasDevice(3), "n": dev}})
	llm := extraction.Extract([]model.RawRow{{"m": farm, "r": hasDevice(99), "n": dev}})

	m := Graphs("Q3", gt, llm)

	assert.Empty(t, m.MissingLLM.Edges)
	assert.Empty(t, m.ExtraLLM.Edges)
}

func TestGraphs_ExtraElements(t *testing.T) {
	gt := extraction.Extract([]model.RawRow{{"n": dev}})
	llm := extraction.Extract([]model.RawRow{{"m": farm, "r": hasDevice(3), "n": dev}})

	m := Graphs("Q4", gt, llm)

	assert.Equal(t, []model.NodeRecord{{ID: "urn:farm:A", Label: "AgriFarm"}}, m.ExtraLLM.Nodes)
	assert.Len(t, m.ExtraLLM.Edges, 1)
	assert.Empty(t, m.MissingLLM.Nodes)
}

func TestGraphs_NilGraphs(t *testing.T) {
	m := Graphs("Q5", nil, nil)
	assert.True(t, m.Match())
	assert.Equal(t, 0, m.NodesGT)
}

func TestSetAlgebraProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	toGraph := func(ids []int) *model.Graph {
		g := model.NewGraph()
		for _, id := range ids {
			g.Nodes.Add(model.NodeRecord{ID: string(rune('a' + id)), Label: "L"})
		}
		return g
	}

	properties.Property("missing is A-B, extra is B-A, equal iff both empty", prop.ForAll(
		func(a, b []int) bool {
			ga, gb := toGraph(a), toGraph(b)
			m := Graphs("P", ga, gb)

			for _, n := range m.MissingLLM.Nodes {
				if !ga.Nodes.Has(n) || gb.Nodes.Has(n) {
					return false
				}
			}
			for _, n := range m.ExtraLLM.Nodes {
				if !gb.Nodes.Has(n) || ga.Nodes.Has(n) {
					return false
				}
			}
			for n := range ga.Nodes {
				if !gb.Nodes.Has(n) && !contains(m.MissingLLM.Nodes, n) {
					return false
				}
			}
			for n := range gb.Nodes {
				if !ga.Nodes.Has(n) && !contains(m.ExtraLLM.Nodes, n) {
					return false
				}
			}

			equal := ga.Nodes.Len() == gb.Nodes.Len() && len(ga.Nodes.Difference(gb.Nodes)) == 0
			return equal == m.Match()
		},
		gen.SliceOf(gen.IntRange(0, 10)),
		gen.SliceOf(gen.IntRange(0, 10)),
	))

	properties.TestingRun(t)
}

func contains(nodes []model.NodeRecord, n model.NodeRecord) bool {
	for _, x := range nodes {
		if x == n {
			return true
		}
	}
	return false
}
