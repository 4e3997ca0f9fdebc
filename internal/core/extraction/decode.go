package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
)

// Decode turns a cell value into structured data where possible. Mappings and
// sequences are returned as they are. Strings, including AGE agtype text such as
// `{...}::vertex`, are parsed as JSON once their type tags are removed; text
// that does not parse is returned unchanged. Decode is idempotent.
func Decode(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any, []any:
		return val
	case string:
		return decodeString(val)
	case []byte:
		return decodeString(string(val))
	}
	return normalizeContainer(v)
}

func decodeString(s string) any {
	text := strings.TrimSpace(s)
	if text == "" {
		return s
	}
	text = stripTypeTags(text)

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return s
	}
	// Anything after the first value, including a stray closing bracket,
	// means the text was not a single JSON document.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return s
	}
	// A quoted literal is text, not an encoded structure.
	if _, ok := out.(string); ok {
		return s
	}
	return out
}

// stripTypeTags removes `::name` annotations that sit outside string literals.
func stripTypeTags(s string) string {
	if !strings.Contains(s, "::") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ':' && i+1 < len(s) && s[i+1] == ':' {
			j := i + 2
			for j < len(s) && isTagChar(s[j]) {
				j++
			}
			if j > i+2 {
				i = j - 1
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isTagChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// normalizeContainer converts typed maps and slices produced by drivers into
// the generic shapes the walker understands.
func normalizeContainer(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return v
}
