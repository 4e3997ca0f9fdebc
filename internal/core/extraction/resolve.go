package extraction

import "github.com/agenthands/graphdiff/internal/core/model"

// Resolve rewrites provisional edge endpoints through ids. An endpoint with no
// mapping keeps its internal id. The internal edge id is dropped, so edges that
// agree on resolved endpoints and type collapse into one.
func Resolve(edges model.ProvisionalEdgeSet, ids model.IdentifierMap) model.EdgeSet {
	out := make(model.EdgeSet, len(edges))
	for e := range edges {
		out.Add(model.EdgeRecord{
			Start: resolveEndpoint(e.StartInternal, ids),
			End:   resolveEndpoint(e.EndInternal, ids),
			Type:  e.Type,
		})
	}
	return out
}

func resolveEndpoint(internal string, ids model.IdentifierMap) string {
	if semantic, ok := ids.Semantic(internal); ok {
		return semantic
	}
	return internal
}
