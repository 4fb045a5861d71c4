package orchestrator

import "strings"

// CallerContext identifies the authenticated caller of a turn. It is used
// only for argument resolution and is never stored in conversation history.
type CallerContext struct {
	UserID string
}

// selfReferences is the vocabulary a model may emit when the user spoke
// about themselves instead of naming a concrete id.
var selfReferences = map[string]struct{}{
	"current user": {},
	"me":           {},
	"my":           {},
	"myself":       {},
}

// ResolveArguments rewrites self-referential user_id values to the caller's
// id. Explicit third-party ids pass through untouched, as does every other
// argument. The invocation is modified in place and returned for chaining.
func ResolveArguments(inv ToolInvocation, caller CallerContext) ToolInvocation {
	raw, ok := inv.Arguments["user_id"]
	if !ok {
		return inv
	}
	value, ok := raw.(string)
	if !ok {
		return inv
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		inv.Arguments["user_id"] = caller.UserID
		return inv
	}
	if _, self := selfReferences[strings.ToLower(trimmed)]; self {
		inv.Arguments["user_id"] = caller.UserID
	}
	return inv
}
