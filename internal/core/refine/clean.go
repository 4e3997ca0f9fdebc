package refine

import (
	"encoding/json"

	"github.com/agenthands/graphdiff/internal/core/extraction"
	"github.com/agenthands/graphdiff/internal/core/model"
)

type Edge struct {
	Type       string         `json:"type"`
	StartID    string         `json:"start_id"`
	EndID      string         `json:"end_id"`
	Properties map[string]any `json:"properties"`
}

// Graph is a cleaned view. Edges is nil when the profile drops edges, and the
// key is then left out of the JSON form.
type Graph struct {
	Nodes []map[string]any
	Edges []Edge
}

func (g Graph) MarshalJSON() ([]byte, error) {
	nodes := g.Nodes
	if nodes == nil {
		nodes = []map[string]any{}
	}
	if g.Edges == nil {
		return json.Marshal(struct {
			Nodes []map[string]any `json:"nodes"`
		}{nodes})
	}
	return json.Marshal(struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []Edge           `json:"edges"`
	}{nodes, g.Edges})
}

// folded collects parent -> children lists for one canonical edge type,
// keeping first-seen order and dropping duplicates.
type folded struct {
	parents  []string
	children map[string][]string
	seen     map[[2]string]bool
}

func (f *folded) add(parent, child string) {
	key := [2]string{parent, child}
	if f.seen[key] {
		return
	}
	f.seen[key] = true
	if _, ok := f.children[parent]; !ok {
		f.parents = append(f.parents, parent)
	}
	f.children[parent] = append(f.children[parent], child)
}

// Clean applies p to a full export. Nodes without a semantic id, nodes with a
// skipped label, and edges whose endpoints do not resolve are dropped. Edges
// matching a fold rule are rewritten to the rule's canonical type and also
// listed on the parent node under that type; other edges are dropped.
func Clean(in *model.GraphExport, p Profile) Graph {
	if in == nil {
		in = &model.GraphExport{}
	}
	skip := toSet(p.SkipLabels)
	exclude := toSet(p.Exclude)

	semantic := make(map[string]string)
	for _, n := range in.Nodes {
		if skip[n.Label] {
			continue
		}
		internal, ok := extraction.IDString(n.ID)
		if !ok {
			continue
		}
		if urn, ok := extraction.IDString(n.Properties["id"]); ok {
			semantic[internal] = urn
		}
	}

	var targets []string
	folds := make(map[string]*folded)
	for _, r := range p.Fold {
		if _, ok := folds[r.To]; !ok {
			folds[r.To] = &folded{children: map[string][]string{}, seen: map[[2]string]bool{}}
			targets = append(targets, r.To)
		}
	}

	for _, e := range in.Edges {
		start, okStart := lookup(semantic, e.StartID)
		end, okEnd := lookup(semantic, e.EndID)
		if !okStart || !okEnd {
			continue
		}
		for _, r := range p.Fold {
			if r.From != e.Type {
				continue
			}
			if r.Reverse {
				folds[r.To].add(end, start)
			} else {
				folds[r.To].add(start, end)
			}
			break
		}
	}

	out := Graph{Nodes: make([]map[string]any, 0, len(in.Nodes)+len(p.ExtraNodes))}
	for _, n := range in.Nodes {
		if skip[n.Label] {
			continue
		}
		urn, ok := extraction.IDString(n.Properties["id"])
		if !ok {
			continue
		}

		allowed := p.allowed(n.Label)
		props := make(map[string]any)
		for key, v := range n.Properties {
			if exclude[key] || !allowed[key] {
				continue
			}
			props[key] = v
		}
		for _, t := range targets {
			if children := folds[t].children[urn]; len(children) > 0 {
				props[t] = append([]string(nil), children...)
			}
		}

		cleaned := map[string]any{"label": n.Label, "properties": props}
		if !p.OmitIDs {
			cleaned["id"] = urn
		}
		out.Nodes = append(out.Nodes, cleaned)
	}
	for _, extra := range p.ExtraNodes {
		out.Nodes = append(out.Nodes, extra)
	}

	if p.DropEdges {
		return out
	}
	out.Edges = []Edge{}
	for _, t := range targets {
		f := folds[t]
		for _, parent := range f.parents {
			for _, child := range f.children[parent] {
				out.Edges = append(out.Edges, Edge{Type: t, StartID: parent, EndID: child, Properties: map[string]any{}})
			}
		}
	}
	return out
}

func lookup(semantic map[string]string, id any) (string, bool) {
	internal, ok := extraction.IDString(id)
	if !ok {
		return "", false
	}
	urn, ok := semantic[internal]
	return urn, ok
}
