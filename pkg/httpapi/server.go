// Package httpapi exposes the caller-facing HTTP surface of the
// orchestrator: the chat endpoint plus conversation, catalog, and health
// operations.
package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	orchestrator "github.com/toolbridge/chatd"
)

// Server routes caller requests to an Orchestrator.
type Server struct {
	orch       *orchestrator.Orchestrator
	backendURL string
}

// NewServer wires the handlers. backendURL is only reported by /health.
func NewServer(orch *orchestrator.Orchestrator, backendURL string) *Server {
	return &Server{orch: orch, backendURL: backendURL}
}

// Handler returns the full route table wrapped with CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /conversations/{id}", s.handleGetConversation)
	mux.HandleFunc("DELETE /conversations/{id}", s.handleDeleteConversation)
	mux.HandleFunc("GET /tools", s.handleListTools)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /test_tool", s.handleTestTool)
	return withCORS(mux)
}

type chatRequest struct {
	UserID         string `json:"user_id"`
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type chatResponse struct {
	Response       string `json:"response"`
	ToolUsed       bool   `json:"tool_used"`
	ToolResult     string `json:"tool_result,omitempty"`
	ConversationID string `json:"conversation_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "user_id and message are required")
		return
	}

	result, err := s.orch.Turn(r.Context(), orchestrator.TurnRequest{
		UserID:         req.UserID,
		Message:        req.Message,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		log.Printf("[http] chat turn failed: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:       result.Response,
		ToolUsed:       result.ToolUsed,
		ToolResult:     result.ToolResult,
		ConversationID: result.ConversationID,
	})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	history := s.orch.History(id)
	if history == nil {
		history = []orchestrator.Turn{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": id,
		"history":         history,
	})
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	s.orch.Clear(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation cleared"})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	specs := s.orch.Specs()
	out := make([]map[string]any, 0, len(specs))
	for _, spec := range specs {
		out = append(out, map[string]any{
			"name":        spec.Name,
			"description": spec.Description,
			"inputSchema": spec.Schema(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":       "healthy",
		"service":      "chatd",
		"tool_backend": s.backendURL,
	})
}

type testToolRequest struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
}

// handleTestTool invokes a tool directly, bypassing the model. Development
// convenience only.
func (s *Server) handleTestTool(w http.ResponseWriter, r *http.Request) {
	var req testToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ToolName == "" {
		writeError(w, http.StatusBadRequest, "tool_name is required")
		return
	}

	result := s.orch.InvokeTool(r.Context(), req.ToolName, req.Arguments)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   result.Success,
		"tool_name": req.ToolName,
		"arguments": req.Arguments,
		"result":    result.Text,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// withCORS allows browser clients to reach the API from any origin.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
