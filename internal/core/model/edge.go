package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ProvisionalEdge is an edge captured during traversal, before its endpoints
// have been rewritten to semantic identifiers.
type ProvisionalEdge struct {
	StartInternal string
	EndInternal   string
	Type          string
	InternalID    string
}

// ProvisionalEdgeSet keys on all four fields, so parallel edges that differ
// only by internal id stay distinct until resolution.
type ProvisionalEdgeSet map[ProvisionalEdge]struct{}

func (s ProvisionalEdgeSet) Add(e ProvisionalEdge) { s[e] = struct{}{} }

func (s ProvisionalEdgeSet) Len() int { return len(s) }

// EdgeRecord is the comparable identity of a resolved edge.
type EdgeRecord struct {
	Start string
	End   string
	Type  string
}

// MarshalJSON encodes the edge as a [start_semantic_id, end_semantic_id, type] tuple.
func (e EdgeRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]string{e.Start, e.End, e.Type})
}

func (e *EdgeRecord) UnmarshalJSON(data []byte) error {
	var tuple []string
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 3 {
		return fmt.Errorf("edge tuple must have 3 elements, got %d", len(tuple))
	}
	e.Start, e.End, e.Type = tuple[0], tuple[1], tuple[2]
	return nil
}

type EdgeSet map[EdgeRecord]struct{}

func NewEdgeSet(edges ...EdgeRecord) EdgeSet {
	s := make(EdgeSet, len(edges))
	for _, e := range edges {
		s.Add(e)
	}
	return s
}

func (s EdgeSet) Add(e EdgeRecord) { s[e] = struct{}{} }

func (s EdgeSet) Has(e EdgeRecord) bool {
	_, ok := s[e]
	return ok
}

func (s EdgeSet) Len() int { return len(s) }

// Difference returns the edges of s that are not in other.
func (s EdgeSet) Difference(other EdgeSet) EdgeSet {
	out := make(EdgeSet)
	for e := range s {
		if !other.Has(e) {
			out.Add(e)
		}
	}
	return out
}

// Sorted returns the members ordered by start, end, then type.
func (s EdgeSet) Sorted() []EdgeRecord {
	out := make([]EdgeRecord, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.Type < b.Type
	})
	return out
}

// Graph is a finished, comparable subgraph.
type Graph struct {
	Nodes NodeSet
	Edges EdgeSet
}

func NewGraph() *Graph {
	return &Graph{Nodes: make(NodeSet), Edges: make(EdgeSet)}
}
