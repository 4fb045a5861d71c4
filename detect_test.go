package orchestrator

import "testing"

func TestDetectToolCallExactJSON(t *testing.T) {
	raw := `{"tool_call": true, "name": "get_profile", "arguments": {"user_id": "U001"}}`

	inv, ok := DetectToolCall(raw)
	if !ok {
		t.Fatalf("expected a tool call, got none")
	}
	if inv.Name != "get_profile" {
		t.Fatalf("expected get_profile, got %q", inv.Name)
	}
	if inv.Arguments["user_id"] != "U001" {
		t.Fatalf("unexpected arguments: %v", inv.Arguments)
	}
}

func TestDetectToolCallEmbeddedInProse(t *testing.T) {
	raw := "Sure, let me look that up.\n" +
		`{"tool_call": true, "name": "get_transactions", "arguments": {"user_id": "U002", "limit": 5}}` +
		"\nOne moment."

	inv, ok := DetectToolCall(raw)
	if !ok {
		t.Fatalf("expected a tool call inside prose")
	}
	if inv.Name != "get_transactions" {
		t.Fatalf("expected get_transactions, got %q", inv.Name)
	}
	if limit, isFloat := inv.Arguments["limit"].(float64); !isFloat || limit != 5 {
		t.Fatalf("expected numeric limit 5, got %v", inv.Arguments["limit"])
	}
}

func TestDetectToolCallPlainProse(t *testing.T) {
	if _, ok := DetectToolCall("Your balance looks healthy this month."); ok {
		t.Fatalf("plain prose must not be a tool call")
	}
}

func TestDetectToolCallRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"false flag", `{"tool_call": false, "name": "get_profile", "arguments": {}}`},
		{"string flag", `{"tool_call": "true", "name": "get_profile", "arguments": {}}`},
		{"missing name", `{"tool_call": true, "arguments": {"user_id": "U001"}}`},
		{"blank name", `{"tool_call": true, "name": "  ", "arguments": {}}`},
		{"missing arguments", `{"tool_call": true, "name": "get_profile"}`},
		{"arguments not object", `{"tool_call": true, "name": "get_profile", "arguments": "user_id=U001"}`},
		{"unterminated", `{"tool_call": true, "name": "get_profile", "arguments": {"user_id": "U001"`},
	}
	for _, tc := range cases {
		if _, ok := DetectToolCall(tc.raw); ok {
			t.Fatalf("%s: expected no tool call for %q", tc.name, tc.raw)
		}
	}
}

func TestDetectToolCallNestedArguments(t *testing.T) {
	raw := `Checking: {"tool_call": true, "name": "search_transactions", "arguments": {"category": "food", "filters": {"min_amount": 10}}}`

	inv, ok := DetectToolCall(raw)
	if !ok {
		t.Fatalf("expected a tool call with nested arguments")
	}
	if inv.Name != "search_transactions" {
		t.Fatalf("expected search_transactions, got %q", inv.Name)
	}
}

func TestDetectToolCallBracesInsideStrings(t *testing.T) {
	raw := `{"tool_call": true, "name": "search_transactions", "arguments": {"description": "curly {braces} and \"quotes\""}}`

	inv, ok := DetectToolCall(raw)
	if !ok {
		t.Fatalf("string literals with braces broke the scan")
	}
	if inv.Arguments["description"] != `curly {braces} and "quotes"` {
		t.Fatalf("unexpected argument value: %v", inv.Arguments["description"])
	}
}

func TestDetectToolCallKeyMentionedBeforeObject(t *testing.T) {
	raw := `I will emit a "tool_call" object now:` + "\n" +
		`{"tool_call": true, "name": "get_profile", "arguments": {"user_id": "U001"}}`

	inv, ok := DetectToolCall(raw)
	if !ok {
		t.Fatalf("tool call missed when the key is mentioned in prose first")
	}
	if inv.Name != "get_profile" || inv.Arguments["user_id"] != "U001" {
		t.Fatalf("unexpected invocation: %+v", inv)
	}
}

func TestDetectToolCallMalformedObjectBeforeValid(t *testing.T) {
	raw := `{"tool_call": "true", "name": "get_profile"} was wrong, retrying: ` +
		`{"tool_call": true, "name": "get_transactions", "arguments": {"user_id": "U002"}}`

	inv, ok := DetectToolCall(raw)
	if !ok {
		t.Fatalf("valid tool call after a malformed one was missed")
	}
	if inv.Name != "get_transactions" {
		t.Fatalf("expected get_transactions, got %q", inv.Name)
	}
}

func TestDetectToolCallMentionWithoutJSON(t *testing.T) {
	raw := `To call a tool I would emit a "tool_call" object, but you asked a general question.`
	if _, ok := DetectToolCall(raw); ok {
		t.Fatalf("a mere mention of the key is not a tool call")
	}
}
