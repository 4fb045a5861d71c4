package models

import "context"

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role/content entry in a completion request.
type Message struct {
	Role    string
	Content string
}

// ChatRequest carries an ordered message sequence plus sampling parameters.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Provider is the completion-service boundary. Implementations return a
// single completion text for the request.
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}
