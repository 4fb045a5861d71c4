package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeBackend records calls and plays back a scripted result or error.
type fakeBackend struct {
	calls  []string
	result string
	err    error
}

func (f *fakeBackend) CallTool(_ context.Context, name string, _ map[string]any) (string, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

func TestDispatcherUnknownTool(t *testing.T) {
	backend := &fakeBackend{}
	dispatcher := NewDispatcher(DefaultCatalog(), backend)

	result := dispatcher.Invoke(context.Background(), ToolInvocation{Name: "delete_everything"})
	if result.Success {
		t.Fatalf("unknown tool must fail")
	}
	if result.Text != "Unknown tool: delete_everything" {
		t.Fatalf("unexpected failure text: %q", result.Text)
	}
	if len(backend.calls) != 0 {
		t.Fatalf("unknown tool must not reach the backend, saw %v", backend.calls)
	}
}

func TestDispatcherMissingRequiredArgument(t *testing.T) {
	backend := &fakeBackend{}
	dispatcher := NewDispatcher(DefaultCatalog(), backend)

	result := dispatcher.Invoke(context.Background(), ToolInvocation{
		Name:      "get_profile",
		Arguments: map[string]any{"user_id": "   "},
	})
	if result.Success {
		t.Fatalf("blank required argument must fail")
	}
	if !strings.Contains(result.Text, "Missing required argument(s) for get_profile: user_id") {
		t.Fatalf("unexpected failure text: %q", result.Text)
	}
	if len(backend.calls) != 0 {
		t.Fatalf("validation failures must not reach the backend")
	}
}

func TestDispatcherBackendError(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection refused")}
	dispatcher := NewDispatcher(DefaultCatalog(), backend)

	result := dispatcher.Invoke(context.Background(), ToolInvocation{
		Name:      "get_profile",
		Arguments: map[string]any{"user_id": "U001"},
	})
	if result.Success {
		t.Fatalf("backend error must fail the dispatch")
	}
	if !strings.Contains(result.Text, "Failed to call tool get_profile") {
		t.Fatalf("unexpected failure text: %q", result.Text)
	}
}

func TestDispatcherSuccess(t *testing.T) {
	backend := &fakeBackend{result: "User Profile Details: ..."}
	dispatcher := NewDispatcher(DefaultCatalog(), backend)

	result := dispatcher.Invoke(context.Background(), ToolInvocation{
		Name:      "GET_PROFILE",
		Arguments: map[string]any{"user_id": "U001"},
	})
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Text)
	}
	if result.Text != "User Profile Details: ..." {
		t.Fatalf("unexpected result text: %q", result.Text)
	}
	if len(backend.calls) != 1 || backend.calls[0] != "get_profile" {
		t.Fatalf("expected one canonical-name call, saw %v", backend.calls)
	}
}
