package orchestrator

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ToolInvocation is a structured tool request extracted from model output.
type ToolInvocation struct {
	Name      string
	Arguments map[string]any
}

// toolCallKey marks candidate spans worth parsing.
const toolCallKey = `"tool_call"`

// maxObjectDepth bounds the brace scan. Argument values are flat, so
// legitimate tool-call objects never nest deeper than this.
const maxObjectDepth = 8

// DetectToolCall decides whether a raw completion encodes a tool invocation.
// The scan is permissive about surrounding prose but strict about the object
// once located: a span that does not parse into {tool_call: true, name,
// arguments} is never coerced into a request. When no tool call is found the
// raw text is the final answer.
func DetectToolCall(raw string) (ToolInvocation, bool) {
	// The key may appear in prose or in a malformed object before the real
	// call, so every occurrence is a candidate.
	for offset := 0; ; {
		idx := strings.Index(raw[offset:], toolCallKey)
		if idx < 0 {
			break
		}
		key := offset + idx

		// Walk enclosing objects from the innermost outwards and take the
		// first span that parses cleanly.
		for i := key; i >= 0; i-- {
			if raw[i] != '{' {
				continue
			}
			span, ok := balancedSpan(raw, i)
			if !ok || i+len(span) <= key {
				continue
			}
			if inv, ok := parseInvocation(span); ok {
				return inv, true
			}
		}

		offset = key + len(toolCallKey)
	}

	// Fallback: the whole response may itself be the JSON object.
	if trimmed := strings.TrimSpace(raw); strings.HasPrefix(trimmed, "{") {
		if inv, ok := parseInvocation(trimmed); ok {
			return inv, true
		}
	}

	return ToolInvocation{}, false
}

// balancedSpan returns the substring from the opening brace at start through
// its matching close, honoring JSON string literals and escapes.
func balancedSpan(s string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
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
			if depth > maxObjectDepth {
				return "", false
			}
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// parseInvocation strictly validates a candidate span. tool_call must be the
// literal boolean true, name a non-empty cataloged-shaped string, and
// arguments a JSON object.
func parseInvocation(span string) (ToolInvocation, bool) {
	if !gjson.Valid(span) {
		return ToolInvocation{}, false
	}
	parsed := gjson.Parse(span)
	if !parsed.IsObject() {
		return ToolInvocation{}, false
	}
	if parsed.Get("tool_call").Type != gjson.True {
		return ToolInvocation{}, false
	}
	name := parsed.Get("name")
	if name.Type != gjson.String || strings.TrimSpace(name.String()) == "" {
		return ToolInvocation{}, false
	}
	args := parsed.Get("arguments")
	if !args.IsObject() {
		return ToolInvocation{}, false
	}

	arguments := make(map[string]any)
	args.ForEach(func(k, v gjson.Result) bool {
		arguments[k.String()] = v.Value()
		return true
	})

	return ToolInvocation{
		Name:      strings.TrimSpace(name.String()),
		Arguments: arguments,
	}, true
}
