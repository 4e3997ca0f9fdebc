// Package common holds helpers shared by the LLM-facing parts of core.
package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a model answer contains no JSON object.
var ErrNoJSON = errors.New("no JSON object found in response")

// ParseJSON extracts the JSON object embedded in a model answer and
// unmarshals it into T. Markdown fences and surrounding prose are ignored.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	body, err := ExtractObject(response)
	if err != nil {
		return zero, err
	}

	var result T
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	if err := dec.Decode(&result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, body)
	}
	return result, nil
}

// ExtractObject returns the text between the first '{' and the last '}'.
// A fenced ```json block takes precedence when one is present.
func ExtractObject(response string) (string, error) {
	text := response
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if j := strings.Index(rest, "```"); j >= 0 && strings.Contains(rest[:j], "{") {
			text = rest[:j]
		}
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("%w (missing '{')", ErrNoJSON)
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return "", fmt.Errorf("%w (missing '}')", ErrNoJSON)
	}
	return text[start : end+1], nil
}
