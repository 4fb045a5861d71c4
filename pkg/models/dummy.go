package models

import (
	"context"
	"strings"
	"sync"
)

// DummyLLM is a scripted model implementation useful for local runs and
// tests without API calls. Replies are consumed in order; when the script
// runs out it echoes the last user message.
type DummyLLM struct {
	mu      sync.Mutex
	Replies []string
}

func NewDummyLLM(replies ...string) *DummyLLM {
	return &DummyLLM{Replies: replies}
}

func (d *DummyLLM) Chat(_ context.Context, req ChatRequest) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.Replies) > 0 {
		reply := d.Replies[0]
		d.Replies = d.Replies[1:]
		return reply, nil
	}

	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == RoleUser {
			if last := lastNonEmptyLine(req.Messages[i].Content); last != "" {
				return "Dummy response: " + last, nil
			}
		}
	}
	return "Dummy response: <empty prompt>", nil
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if candidate := strings.TrimSpace(lines[i]); candidate != "" {
			return candidate
		}
	}
	return ""
}

var _ Provider = (*DummyLLM)(nil)
