package model

import "encoding/json"

// ExportNode is a full node element as found in a result payload.
type ExportNode struct {
	ID         any            `json:"id"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties"`
}

// ExportEdge is a full edge element as found in a result payload.
type ExportEdge struct {
	ID         any            `json:"id"`
	Type       string         `json:"type"`
	StartID    any            `json:"start_id"`
	EndID      any            `json:"end_id"`
	Properties map[string]any `json:"properties"`
}

// GraphExport is an uncleaned dump of every element a query returned.
type GraphExport struct {
	Nodes []ExportNode `json:"nodes"`
	Edges []ExportEdge `json:"edges"`
}

// UnmarshalJSON accepts the edge type under either "type" or "label".
func (e *ExportEdge) UnmarshalJSON(data []byte) error {
	type plain ExportEdge
	var aux struct {
		plain
		Label string `json:"label"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = ExportEdge(aux.plain)
	if e.Type == "" {
		e.Type = aux.Label
	}
	return nil
}
