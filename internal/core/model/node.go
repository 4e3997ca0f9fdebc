package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// RawRow is one result row as produced by query execution: column name to an
// arbitrarily nested value.
type RawRow map[string]any

// NodeRecord is the comparable identity of a graph node. Every other property
// of the node is discarded before comparison.
type NodeRecord struct {
	ID    string
	Label string
}

// MarshalJSON encodes the node as a [semantic_id, label] tuple.
func (n NodeRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{n.ID, n.Label})
}

func (n *NodeRecord) UnmarshalJSON(data []byte) error {
	var tuple []string
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 2 {
		return fmt.Errorf("node tuple must have 2 elements, got %d", len(tuple))
	}
	n.ID, n.Label = tuple[0], tuple[1]
	return nil
}

type NodeSet map[NodeRecord]struct{}

func NewNodeSet(nodes ...NodeRecord) NodeSet {
	s := make(NodeSet, len(nodes))
	for _, n := range nodes {
		s.Add(n)
	}
	return s
}

func (s NodeSet) Add(n NodeRecord) { s[n] = struct{}{} }

func (s NodeSet) Has(n NodeRecord) bool {
	_, ok := s[n]
	return ok
}

func (s NodeSet) Len() int { return len(s) }

// Difference returns the nodes of s that are not in other.
func (s NodeSet) Difference(other NodeSet) NodeSet {
	out := make(NodeSet)
	for n := range s {
		if !other.Has(n) {
			out.Add(n)
		}
	}
	return out
}

// Sorted returns the members ordered by id, then label.
func (s NodeSet) Sorted() []NodeRecord {
	out := make([]NodeRecord, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// IdentifierMap maps internal node identifiers to semantic identifiers. It is
// read-only once built.
type IdentifierMap struct {
	ids map[string]string
}

// NewIdentifierMap copies ids into a new IdentifierMap.
func NewIdentifierMap(ids map[string]string) IdentifierMap {
	m := make(map[string]string, len(ids))
	for k, v := range ids {
		m[k] = v
	}
	return IdentifierMap{ids: m}
}

// Semantic returns the semantic id recorded for an internal id.
func (m IdentifierMap) Semantic(internal string) (string, bool) {
	id, ok := m.ids[internal]
	return id, ok
}

func (m IdentifierMap) Len() int { return len(m.ids) }
