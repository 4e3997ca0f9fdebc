package model

import (
	"encoding/json"
	"time"
)

// Elements bundles node and edge tuples for one side of a diff.
type Elements struct {
	Nodes []NodeRecord `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
}

// ComparisonMetrics is the structural diff of one query's candidate graph
// against its ground-truth graph.
type ComparisonMetrics struct {
	QueryID    string   `json:"query_id"`
	NodesGT    int      `json:"nodes_gt"`
	NodesLLM   int      `json:"nodes_llm"`
	EdgesGT    int      `json:"edges_gt"`
	EdgesLLM   int      `json:"edges_llm"`
	MissingLLM Elements `json:"missing_llm"`
	ExtraLLM   Elements `json:"extra_llm"`
}

// Match reports whether the candidate graph equals the ground-truth graph.
func (m ComparisonMetrics) Match() bool {
	return len(m.MissingLLM.Nodes) == 0 && len(m.MissingLLM.Edges) == 0 &&
		len(m.ExtraLLM.Nodes) == 0 && len(m.ExtraLLM.Edges) == 0
}

// QueryError records why a query could not be compared. Each side holds the
// failure of that side's execution, empty when it succeeded.
type QueryError struct {
	GT  string `json:"gt"`
	LLM string `json:"llm"`
}

// Comparison is one report entry: either metrics or an error, never both.
type Comparison struct {
	QueryID string
	Metrics *ComparisonMetrics
	Error   *QueryError
}

type comparisonError struct {
	QueryID string      `json:"query_id"`
	Error   *QueryError `json:"error"`
}

func (c Comparison) MarshalJSON() ([]byte, error) {
	if c.Error != nil || c.Metrics == nil {
		qe := c.Error
		if qe == nil {
			qe = &QueryError{}
		}
		return json.Marshal(comparisonError{QueryID: c.QueryID, Error: qe})
	}
	m := *c.Metrics
	m.QueryID = c.QueryID
	if m.MissingLLM.Nodes == nil {
		m.MissingLLM.Nodes = []NodeRecord{}
	}
	if m.MissingLLM.Edges == nil {
		m.MissingLLM.Edges = []EdgeRecord{}
	}
	if m.ExtraLLM.Nodes == nil {
		m.ExtraLLM.Nodes = []NodeRecord{}
	}
	if m.ExtraLLM.Edges == nil {
		m.ExtraLLM.Edges = []EdgeRecord{}
	}
	return json.Marshal(m)
}

func (c *Comparison) UnmarshalJSON(data []byte) error {
	var probe struct {
		QueryID string      `json:"query_id"`
		Error   *QueryError `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	c.QueryID = probe.QueryID
	if probe.Error != nil {
		c.Error = probe.Error
		c.Metrics = nil
		return nil
	}
	var m ComparisonMetrics
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	c.Metrics = &m
	c.Error = nil
	return nil
}

// Report is the persisted outcome of comparing two result files.
type Report struct {
	RunID       string       `json:"run_id,omitempty"`
	GeneratedAt time.Time    `json:"generated_at"`
	GTFile      string       `json:"gt_file"`
	LLMFile     string       `json:"llm_file"`
	Comparisons []Comparison `json:"comparisons"`
}
