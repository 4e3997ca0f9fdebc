package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type answer struct {
	Query     string `json:"query"`
	Reasoning string `json:"reasoning"`
}

func TestParseJSON(t *testing.T) {
	got, err := ParseJSON[answer]("Sure!\n```json\n{\"query\": \"RETURN 1\", \"reasoning\": \"trivial\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, answer{Query: "RETURN 1", Reasoning: "trivial"}, got)
}

func TestParseJSON_BracesInsideQuery(t *testing.T) {
	raw := `Here you go: {"query": "MATCH (n:Device {id: 'urn:dev:1'}) RETURN n", "reasoning": "by id"} hope it helps`
	got, err := ParseJSON[answer](raw)
	require.NoError(t, err)
	assert.Equal(t, "MATCH (n:Device {id: 'urn:dev:1'}) RETURN n", got.Query)
}

func TestParseJSON_NumbersPreserved(t *testing.T) {
	got, err := ParseJSON[map[string]any](`{"limit": 12345678901234567}`)
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567", got["limit"].(interface{ String() string }).String())
}

func TestParseJSON_NoObject(t *testing.T) {
	_, err := ParseJSON[answer]("no json here")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestParseJSON_Unclosed(t *testing.T) {
	_, err := ParseJSON[answer]("} then {")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestParseJSON_Malformed(t *testing.T) {
	_, err := ParseJSON[answer](`{"query": }`)
	assert.ErrorContains(t, err, "failed to unmarshal JSON")
}

func TestExtractObject_FenceWithoutObject(t *testing.T) {
	got, err := ExtractObject("```\nplain\n``` and then {\"a\": 1}")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, got)
}
