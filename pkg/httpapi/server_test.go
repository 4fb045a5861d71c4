package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	orchestrator "github.com/toolbridge/chatd"
	"github.com/toolbridge/chatd/pkg/models"
)

type stubBackend struct {
	result string
	err    error
}

func (s *stubBackend) CallTool(context.Context, string, map[string]any) (string, error) {
	return s.result, s.err
}

type failingProvider struct{}

func (failingProvider) Chat(context.Context, models.ChatRequest) (string, error) {
	return "", errors.New("provider down")
}

func newTestServer(t *testing.T, provider models.Provider, backend orchestrator.BackendClient) http.Handler {
	t.Helper()
	orch, err := orchestrator.New(orchestrator.Options{
		Provider: provider,
		Backend:  backend,
		Model:    "test-model",
	})
	if err != nil {
		t.Fatalf("orchestrator.New: %v", err)
	}
	return NewServer(orch, "http://localhost:8000").Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChatDirectAnswer(t *testing.T) {
	handler := newTestServer(t, models.NewDummyLLM("Hi there."), &stubBackend{})

	rec := doJSON(t, handler, http.MethodPost, "/chat", `{"user_id": "U001", "message": "hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Response       string `json:"response"`
		ToolUsed       bool   `json:"tool_used"`
		ConversationID string `json:"conversation_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Response != "Hi there." || resp.ToolUsed {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ConversationID != "default" {
		t.Fatalf("expected default conversation id, got %q", resp.ConversationID)
	}
}

func TestChatToolTurn(t *testing.T) {
	provider := models.NewDummyLLM(
		`{"tool_call": true, "name": "get_profile", "arguments": {"user_id": "U001"}}`,
		"Your name is Asha Rao.",
	)
	handler := newTestServer(t, provider, &stubBackend{result: "User Profile Details: Asha Rao"})

	rec := doJSON(t, handler, http.MethodPost, "/chat", `{"user_id": "U001", "message": "who am I?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Response   string `json:"response"`
		ToolUsed   bool   `json:"tool_used"`
		ToolResult string `json:"tool_result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.ToolUsed || resp.Response != "Your name is Asha Rao." {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ToolResult != "User Profile Details: Asha Rao" {
		t.Fatalf("unexpected tool result: %q", resp.ToolResult)
	}
}

func TestChatValidation(t *testing.T) {
	handler := newTestServer(t, models.NewDummyLLM(), &stubBackend{})

	for _, body := range []string{
		`{"message": "hello"}`,
		`{"user_id": "U001"}`,
		`{"user_id": "U001", "message": "   "}`,
		`{"user_id": "  ", "message": "hello"}`,
		`not json`,
	} {
		rec := doJSON(t, handler, http.MethodPost, "/chat", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestChatUpstreamFailure(t *testing.T) {
	handler := newTestServer(t, failingProvider{}, &stubBackend{})

	rec := doJSON(t, handler, http.MethodPost, "/chat", `{"user_id": "U001", "message": "hello"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected an error message, got %s", rec.Body.String())
	}
}

func TestConversationLifecycle(t *testing.T) {
	handler := newTestServer(t, models.NewDummyLLM("first", "second"), &stubBackend{})

	doJSON(t, handler, http.MethodPost, "/chat", `{"user_id": "U001", "message": "one", "conversation_id": "c1"}`)
	doJSON(t, handler, http.MethodPost, "/chat", `{"user_id": "U001", "message": "two", "conversation_id": "c1"}`)

	rec := doJSON(t, handler, http.MethodGet, "/conversations/c1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got struct {
		ConversationID string              `json:"conversation_id"`
		History        []orchestrator.Turn `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ConversationID != "c1" || len(got.History) != 4 {
		t.Fatalf("unexpected conversation payload: %+v", got)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/conversations/c1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/conversations/c1", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.History) != 0 {
		t.Fatalf("expected empty history after delete, got %+v", got.History)
	}
	// The history field must serialize as [] and never null.
	if !strings.Contains(rec.Body.String(), `"history":[]`) {
		t.Fatalf("history must be an empty array: %s", rec.Body.String())
	}
}

func TestDeleteUnknownConversation(t *testing.T) {
	handler := newTestServer(t, models.NewDummyLLM(), &stubBackend{})

	rec := doJSON(t, handler, http.MethodDelete, "/conversations/nope", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown id, got %d", rec.Code)
	}
}

func TestListTools(t *testing.T) {
	handler := newTestServer(t, models.NewDummyLLM(), &stubBackend{})

	rec := doJSON(t, handler, http.MethodGet, "/tools", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var tools []struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		InputSchema map[string]any `json:"inputSchema"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tools); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(tools) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(tools))
	}
	if tools[0].Name != "get_profile" {
		t.Fatalf("expected get_profile first, got %q", tools[0].Name)
	}
	if tools[0].InputSchema["type"] != "object" {
		t.Fatalf("expected object schema, got %v", tools[0].InputSchema)
	}
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t, models.NewDummyLLM(), &stubBackend{})

	rec := doJSON(t, handler, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "healthy" || resp["service"] != "chatd" {
		t.Fatalf("unexpected health payload: %v", resp)
	}
	if resp["tool_backend"] != "http://localhost:8000" {
		t.Fatalf("health should report the backend url, got %q", resp["tool_backend"])
	}
}

func TestTestTool(t *testing.T) {
	handler := newTestServer(t, models.NewDummyLLM(), &stubBackend{result: "ok"})

	rec := doJSON(t, handler, http.MethodPost, "/test_tool", `{"tool_name": "get_profile", "arguments": {"user_id": "U001"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		Result  string `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Result != "ok" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	rec = doJSON(t, handler, http.MethodPost, "/test_tool", `{"arguments": {}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing tool_name, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestServer(t, models.NewDummyLLM(), &stubBackend{})

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
}
