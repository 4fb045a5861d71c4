package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// historyWindow limits how many trailing turns the prompt carries
// (three exchanges).
const historyWindow = 6

// BuildPrompt composes the single text block sent on the first completion
// pass: preamble, caller-identity binding, tool catalog, the required
// tool-call output grammar, trailing history, and the new user message.
func BuildPrompt(userID, userMessage string, history []Turn, specs []ToolSpec) string {
	var sb strings.Builder
	sb.Grow(4096)

	sb.WriteString("You are a helpful assistant with access to tools.\n")
	sb.WriteString("You can either respond directly to the user or call a tool if needed.\n\n")

	sb.WriteString("IMPORTANT CONTEXT:\n")
	fmt.Fprintf(&sb, "- The current user's ID is: %s\n", userID)
	fmt.Fprintf(&sb, "- When the user refers to \"my\" or \"me\", they mean user ID: %s\n", userID)
	fmt.Fprintf(&sb, "- For queries about the user themselves, fill user_id with: %s\n\n", userID)

	sb.WriteString("AVAILABLE TOOLS:\n")
	sb.WriteString(renderTools(specs))

	sb.WriteString("\nTOOL CALL FORMAT:\n")
	sb.WriteString("If you need to call a tool, respond ONLY with this JSON object and nothing else:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"tool_call\": true,\n")
	sb.WriteString("  \"name\": \"tool_name\",\n")
	sb.WriteString("  \"arguments\": {\"param1\": \"value1\", \"param2\": \"value2\"}\n")
	sb.WriteString("}\n\n")
	sb.WriteString("When calling tools that take a user_id parameter:\n")
	fmt.Fprintf(&sb, "- If the user asks about themselves (\"my\", \"me\", \"I\"), use user_id: %s\n", userID)
	sb.WriteString("- If the user names another user (e.g., \"for user U001\"), use that specific user_id\n")
	fmt.Fprintf(&sb, "- If no user is specified, default to %s\n\n", userID)
	sb.WriteString("Otherwise, respond normally with your answer.\n")

	sb.WriteString("\nCONVERSATION HISTORY:")
	for _, turn := range lastTurns(history, historyWindow) {
		fmt.Fprintf(&sb, "\n%s: %s", turn.Role, turn.Content)
	}

	fmt.Fprintf(&sb, "\n\nUser: %s\nAssistant:", userMessage)

	return sb.String()
}

// renderTools formats the catalog as "- name: description" entries followed
// by the indented argument schema.
func renderTools(specs []ToolSpec) string {
	var sb strings.Builder
	for _, spec := range specs {
		fmt.Fprintf(&sb, "- %s: %s\n", spec.Name, spec.Description)
		if len(spec.Args) == 0 {
			continue
		}
		if schemaJSON, err := json.MarshalIndent(spec.Schema(), "  ", "  "); err == nil {
			sb.WriteString("  Parameters schema: ")
			sb.Write(schemaJSON)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// BuildToolResultPrompt composes the second-pass prompt that narrates the
// tool outcome back through the model. Dispatch failures flow through the
// same path so the model can explain them to the user.
func BuildToolResultPrompt(toolName, resultText, userMessage string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tool call result for %s:\n%s\n\n", toolName, resultText)
	fmt.Fprintf(&sb, "Original user question: %s\n\n", userMessage)
	sb.WriteString("Based on the tool result above, provide a helpful answer to the user:")
	return sb.String()
}
