package manifest

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/graphdiff/internal/core/model"
)

func TestParse_Layouts(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want []model.QueryItem
	}{
		{
			name: "query_set with response blocks",
			yaml: `
query_set:
  - id: Q1
    description: Devices of farm A
    response:
      query: "  SELECT * FROM cypher('g', $$ MATCH (n) RETURN n $$) AS (n agtype);  "
      reasoning: match everything
`,
			want: []model.QueryItem{{
				ID:          "Q1",
				Description: "Devices of farm A",
				Query:       "SELECT * FROM cypher('g', $$ MATCH (n) RETURN n $$) AS (n agtype);",
				Reasoning:   "match everything",
			}},
		},
		{
			name: "keyed list",
			yaml: `
- Q1:
    query: MATCH (n) RETURN n
- Q2:
    response_structure:
      query: MATCH (m) RETURN m
`,
			want: []model.QueryItem{
				{ID: "Q1", Query: "MATCH (n) RETURN n"},
				{ID: "Q2", Query: "MATCH (m) RETURN m"},
			},
		},
		{
			name: "plain list",
			yaml: `
- id: Q3
  question: how many farms
  query: MATCH (f:AgriFarm) RETURN f
`,
			want: []model.QueryItem{{ID: "Q3", Description: "how many farms", Query: "MATCH (f:AgriFarm) RETURN f"}},
		},
		{
			name: "responses key",
			yaml: `
responses:
  - id: Q4
    query: ""
    reasoning: the model refused
`,
			want: []model.QueryItem{{ID: "Q4", Reasoning: "the model refused"}},
		},
		{
			name: "single mapping",
			yaml: `
id: Q5
query: MATCH (n) RETURN n
`,
			want: []model.QueryItem{{ID: "Q5", Query: "MATCH (n) RETURN n"}},
		},
		{
			name: "numeric id and missing id",
			yaml: `
queries:
  - id: 7
    query: RETURN 1
  - query: RETURN 2
`,
			want: []model.QueryItem{{ID: "7", Query: "RETURN 1"}, {ID: "Q2", Query: "RETURN 2"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			assert.Equal(t, tt.want, items)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte("query_set: []\n"))
	assert.True(t, errors.Is(err, ErrNoQueries))

	_, err = Parse([]byte(""))
	assert.True(t, errors.Is(err, ErrNoQueries))
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("query_set: [\n"))
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestFilter(t *testing.T) {
	items := []model.QueryItem{{ID: "Q1"}, {ID: "Q2"}}

	got, err := Filter(items, "Q2")
	require.NoError(t, err)
	assert.Equal(t, []model.QueryItem{{ID: "Q2"}}, got)

	got, err = Filter(items, "")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = Filter(items, "Q9")
	assert.True(t, errors.Is(err, ErrQueryNotFound))
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	items := []model.QueryItem{
		{ID: "Q1", Description: "farms", Query: "MATCH (f) RETURN f", Reasoning: "all farms"},
		{ID: "Q2", Query: ""},
	}

	require.NoError(t, Save(path, items))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read manifest")
}
