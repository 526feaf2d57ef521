/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package result extracts structured JSON from model responses that may be
// wrapped in prose or markdown code fences.
package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed reports that a model response could not be parsed into the
// expected structure. Callers may retry the model call on this error since
// a fresh sample often produces valid output.
var ErrMalformed = errors.New("malformed model response")

// ExtractJSON returns the JSON payload embedded in a model response.
// It prefers a fenced ```json block, then falls back to the first balanced
// {...} object in the text, then to the trimmed input. Models routinely
// preface JSON with prose or wrap it in fences despite instructions.
func ExtractJSON(responseText string) string {
	if fenced, ok := extractFenced(responseText); ok {
		return fenced
	}
	if obj, ok := extractBalancedObject(responseText); ok {
		return obj
	}
	return strings.TrimSpace(responseText)
}

// extractFenced scans for a ```json fence on its own line and returns the
// content up to the closing fence.
func extractFenced(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	var buf strings.Builder
	inBlock := false
	found := false

	for _, line := range lines {
		switch {
		case !inBlock && strings.TrimSpace(line) == "```json":
			inBlock = true
			found = true
		case inBlock && strings.TrimSpace(line) == "```":
			return strings.TrimSpace(buf.String()), true
		case inBlock:
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(line)
		}
	}
	if found {
		return strings.TrimSpace(buf.String()), true
	}
	return "", false
}

// extractBalancedObject returns the first balanced top-level JSON object in
// text, tracking string literals so braces inside values don't miscount.
func extractBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
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
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// Extract pulls the JSON payload out of responseText and unmarshals it into T.
// Parse failures are wrapped in ErrMalformed.
func Extract[T any](responseText string) (T, error) {
	var result T
	if err := json.Unmarshal([]byte(ExtractJSON(responseText)), &result); err != nil {
		return result, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return result, nil
}
