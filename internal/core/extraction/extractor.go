package extraction

import (
	"sort"

	"github.com/agenthands/graphdiff/internal/core/model"
)

// Extraction is the outcome of the traversal stage: the node set, the edges
// with their internal endpoints, and the completed identifier map.
type Extraction struct {
	Nodes model.NodeSet
	Edges model.ProvisionalEdgeSet
	IDs   model.IdentifierMap
}

// Extract builds the comparable graph of a row list: a full traversal followed
// by endpoint resolution.
func Extract(rows []model.RawRow) *model.Graph {
	x := Walk(rows)
	return &model.Graph{
		Nodes: x.Nodes,
		Edges: Resolve(x.Edges, x.IDs),
	}
}

// Walk traverses every column of every row depth first and collects nodes,
// provisional edges and internal-to-semantic identifiers. Nothing is resolved
// here; an edge may be seen before the nodes it connects.
func Walk(rows []model.RawRow) *Extraction {
	nodes := make(model.NodeSet)
	edges := make(model.ProvisionalEdgeSet)
	ids := make(map[string]string)

	visitRows(rows, func(el Element) {
		switch e := el.(type) {
		case Node:
			semantic, ok := IDString(e.SemanticID)
			if !ok {
				return
			}
			nodes.Add(model.NodeRecord{ID: semantic, Label: labelString(e.Label)})
			internal, ok := IDString(e.InternalID)
			if !ok {
				return
			}
			// Keep the smallest semantic id on conflict so the result does not
			// depend on row order.
			if prev, seen := ids[internal]; !seen || semantic < prev {
				ids[internal] = semantic
			}
		case Edge:
			start, ok := IDString(e.StartID)
			if !ok {
				return
			}
			end, ok := IDString(e.EndID)
			if !ok {
				return
			}
			internal, _ := IDString(e.InternalID)
			edges.Add(model.ProvisionalEdge{
				StartInternal: start,
				EndInternal:   end,
				Type:          labelString(e.Type),
				InternalID:    internal,
			})
		}
	})

	return &Extraction{
		Nodes: nodes,
		Edges: edges,
		IDs:   model.NewIdentifierMap(ids),
	}
}

// visitRows calls visit for every node and edge reachable from rows. Columns
// are visited in name order.
func visitRows(rows []model.RawRow, visit func(Element)) {
	visitRowsWith(rows, walk, visit)
}

func visitRowsWith(rows []model.RawRow, walker func(any, func(Element)), visit func(Element)) {
	for _, row := range rows {
		cols := make([]string, 0, len(row))
		for col := range row {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		for _, col := range cols {
			walker(row[col], visit)
		}
	}
}

func walk(v any, visit func(Element)) {
	switch el := Classify(v).(type) {
	case Node, Edge:
		visit(el)
	case Container:
		for _, child := range el.Children {
			walk(child, visit)
		}
	case Scalar:
	}
}
