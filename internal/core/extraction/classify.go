package extraction

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Payload keys recognised by the classifier.
const (
	keyID         = "id"
	keyLabel      = "label"
	keyType       = "type"
	keyStartID    = "start_id"
	keyEndID      = "end_id"
	keyProperties = "properties"
)

// Element is the classification of one decoded value. It is one of Node, Edge,
// Container or Scalar.
type Element interface {
	element()
}

// Node is a mapping shaped as a graph vertex.
type Node struct {
	InternalID any
	SemanticID any
	Label      any
	Properties map[string]any
}

// Edge is a mapping shaped as a graph relationship.
type Edge struct {
	InternalID any
	StartID    any
	EndID      any
	Type       any
	Properties map[string]any
}

// Container holds values to descend into: the values of a plain mapping, in
// key order, or the elements of a sequence.
type Container struct {
	Children []any
}

// Scalar is a terminal value, including text that did not decode.
type Scalar struct {
	Value any
}

func (Node) element()      {}
func (Edge) element()      {}
func (Container) element() {}
func (Scalar) element()    {}

// Classify decodes v and reports what it represents. The edge shape is checked
// first: a mapping carrying both shapes is an edge.
func Classify(v any) Element {
	switch val := Decode(v).(type) {
	case map[string]any:
		if IsEdge(val) {
			return Edge{
				InternalID: val[keyID],
				StartID:    val[keyStartID],
				EndID:      val[keyEndID],
				Type:       edgeType(val),
				Properties: properties(val),
			}
		}
		if IsNode(val) {
			props := properties(val)
			return Node{
				InternalID: val[keyID],
				SemanticID: props[keyID],
				Label:      val[keyLabel],
				Properties: props,
			}
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		children := make([]any, 0, len(keys))
		for _, k := range keys {
			children = append(children, val[k])
		}
		return Container{Children: children}
	case []any:
		return Container{Children: val}
	default:
		return Scalar{Value: val}
	}
}

// IsEdge reports whether m has a start endpoint, an end endpoint and a
// label or type.
func IsEdge(m map[string]any) bool {
	if !hasKey(m, keyStartID) || !hasKey(m, keyEndID) {
		return false
	}
	return hasKey(m, keyLabel) || hasKey(m, keyType)
}

// IsNode reports whether m has a label and a properties mapping carrying an id,
// and is not an edge.
func IsNode(m map[string]any) bool {
	if IsEdge(m) || !hasKey(m, keyLabel) {
		return false
	}
	props, ok := Decode(m[keyProperties]).(map[string]any)
	if !ok {
		return false
	}
	return hasKey(props, keyID)
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func edgeType(m map[string]any) any {
	if t, ok := m[keyLabel]; ok {
		return t
	}
	return m[keyType]
}

func properties(m map[string]any) map[string]any {
	props, _ := Decode(m[keyProperties]).(map[string]any)
	return props
}

// IDString renders an identifier value as text. It reports false for absent
// or empty identifiers.
func IDString(v any) (string, bool) {
	switch id := v.(type) {
	case nil:
		return "", false
	case string:
		return id, id != ""
	case json.Number:
		return id.String(), true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(id), 'f', -1, 32), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	case int32:
		return strconv.FormatInt(int64(id), 10), true
	case uint64:
		return strconv.FormatUint(id, 10), true
	case bool:
		return strconv.FormatBool(id), true
	default:
		return fmt.Sprint(id), true
	}
}

// labelString renders a label or type value; absent labels become "".
func labelString(v any) string {
	s, _ := IDString(v)
	return s
}
