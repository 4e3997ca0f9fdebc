// Package compare computes the structural difference between a ground-truth
// graph and a candidate graph.
package compare

import "github.com/agenthands/graphdiff/internal/core/model"

// Graphs diffs candidate against truth with exact set algebra on normalized
// node and edge tuples: missing = truth - candidate, extra = candidate - truth.
func Graphs(queryID string, truth, candidate *model.Graph) model.ComparisonMetrics {
	if truth == nil {
		truth = model.NewGraph()
	}
	if candidate == nil {
		candidate = model.NewGraph()
	}

	return model.ComparisonMetrics{
		QueryID:  queryID,
		NodesGT:  truth.Nodes.Len(),
		NodesLLM: candidate.Nodes.Len(),
		EdgesGT:  truth.Edges.Len(),
		EdgesLLM: candidate.Edges.Len(),
		MissingLLM: model.Elements{
			Nodes: truth.Nodes.Difference(candidate.Nodes).Sorted(),
			Edges: truth.Edges.Difference(candidate.Edges).Sorted(),
		},
		ExtraLLM: model.Elements{
			Nodes: candidate.Nodes.Difference(truth.Nodes).Sorted(),
			Edges: candidate.Edges.Difference(truth.Edges).Sorted(),
		},
	}
}
