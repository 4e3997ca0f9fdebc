package extraction

import (
	"github.com/agenthands/graphdiff/internal/core/model"
)

// Export collects every node and edge in rows with all of their properties,
// deduplicated by internal id. Elements without an internal id are
// deduplicated by their identity fields instead. Unlike Extract, a vertex
// whose properties carry no semantic id is still exported.
func Export(rows []model.RawRow) *model.GraphExport {
	out := &model.GraphExport{
		Nodes: []model.ExportNode{},
		Edges: []model.ExportEdge{},
	}
	seenNodes := make(map[string]bool)
	seenEdges := make(map[string]bool)

	visitRowsWith(rows, walkExport, func(el Element) {
		switch e := el.(type) {
		case Node:
			key, ok := IDString(e.InternalID)
			if !ok {
				semantic, _ := IDString(e.SemanticID)
				key = "semantic:" + semantic + "|" + labelString(e.Label)
			}
			if seenNodes[key] {
				return
			}
			seenNodes[key] = true
			out.Nodes = append(out.Nodes, model.ExportNode{
				ID:         e.InternalID,
				Label:      labelString(e.Label),
				Properties: copyProps(e.Properties),
			})
		case Edge:
			key, ok := IDString(e.InternalID)
			if !ok {
				start, _ := IDString(e.StartID)
				end, _ := IDString(e.EndID)
				key = "edge:" + start + "|" + end + "|" + labelString(e.Type)
			}
			if seenEdges[key] {
				return
			}
			seenEdges[key] = true
			out.Edges = append(out.Edges, model.ExportEdge{
				ID:         e.InternalID,
				Type:       labelString(e.Type),
				StartID:    e.StartID,
				EndID:      e.EndID,
				Properties: copyProps(e.Properties),
			})
		}
	})
	return out
}

func copyProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}

// walkExport is walk with the vertex check relaxed to an internal id, a label
// and a properties mapping.
func walkExport(v any, visit func(Element)) {
	val := Decode(v)
	if m, ok := val.(map[string]any); ok && isVertex(m) {
		props := properties(m)
		visit(Node{
			InternalID: m[keyID],
			SemanticID: props[keyID],
			Label:      m[keyLabel],
			Properties: props,
		})
		return
	}
	switch el := Classify(val).(type) {
	case Node, Edge:
		visit(el)
	case Container:
		for _, child := range el.Children {
			walkExport(child, visit)
		}
	}
}

func isVertex(m map[string]any) bool {
	if IsEdge(m) || !hasKey(m, keyID) || !hasKey(m, keyLabel) {
		return false
	}
	_, ok := Decode(m[keyProperties]).(map[string]any)
	return ok
}
