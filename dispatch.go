package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ToolResult is the normalized envelope every dispatch produces. Text is
// either the backend's formatted result or a human-readable description of
// what went wrong; nothing tool-specific leaks past this point.
type ToolResult struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

// BackendClient is the boundary to the external tool-execution service.
type BackendClient interface {
	CallTool(ctx context.Context, name string, arguments map[string]any) (string, error)
}

// Dispatcher validates invocations against the catalog and forwards them to
// the backend, normalizing every outcome into a ToolResult.
type Dispatcher struct {
	catalog *Catalog
	backend BackendClient
}

// NewDispatcher wires a dispatcher to its catalog and backend client.
func NewDispatcher(catalog *Catalog, backend BackendClient) *Dispatcher {
	return &Dispatcher{catalog: catalog, backend: backend}
}

// Invoke performs a single dispatch attempt. It never returns an error:
// failures come back success=false so the orchestrator can narrate them
// through the model instead of aborting the turn. There is no retry.
func (d *Dispatcher) Invoke(ctx context.Context, inv ToolInvocation) ToolResult {
	spec, ok := d.catalog.Lookup(inv.Name)
	if !ok {
		return ToolResult{Success: false, Text: fmt.Sprintf("Unknown tool: %s", inv.Name)}
	}

	if missing := missingRequired(spec, inv.Arguments); len(missing) > 0 {
		return ToolResult{
			Success: false,
			Text:    fmt.Sprintf("Missing required argument(s) for %s: %s", spec.Name, strings.Join(missing, ", ")),
		}
	}

	result, err := d.backend.CallTool(ctx, spec.Name, inv.Arguments)
	if err != nil {
		return ToolResult{Success: false, Text: fmt.Sprintf("Failed to call tool %s: %v", spec.Name, err)}
	}
	return ToolResult{Success: true, Text: result}
}

// missingRequired lists required arguments that are absent or blank.
func missingRequired(spec ToolSpec, arguments map[string]any) []string {
	var missing []string
	for name, arg := range spec.Args {
		if !arg.Required {
			continue
		}
		value, ok := arguments[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
