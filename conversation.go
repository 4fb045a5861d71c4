package orchestrator

import (
	"strings"
	"sync"
)

// Turn roles. The marker turn recorded after a tool call uses RoleAssistant.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultConversationID is used when the caller does not supply one.
const DefaultConversationID = "default"

// MaxTurns caps how much history a conversation retains. Older turns are
// evicted from the head once the cap is exceeded.
const MaxTurns = 10

// Turn is one message in a conversation. Immutable once appended.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type conversation struct {
	mu    sync.Mutex
	turns []Turn
}

// Store keeps per-conversation history for the lifetime of the process.
// Appends for one conversation are serialized on that conversation's own
// lock, so turns land in the order the orchestrator issues them without
// blocking unrelated conversations.
type Store struct {
	mu     sync.RWMutex
	convos map[string]*conversation
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{convos: make(map[string]*conversation)}
}

// NormalizeID maps an absent conversation id to the default sentinel.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultConversationID
	}
	return id
}

func (s *Store) getOrCreate(id string) *conversation {
	id = NormalizeID(id)

	s.mu.RLock()
	convo, ok := s.convos[id]
	s.mu.RUnlock()
	if ok {
		return convo
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if convo, ok = s.convos[id]; ok {
		return convo
	}
	convo = &conversation{}
	s.convos[id] = convo
	return convo
}

// Append adds turns to the tail of the conversation, creating it on first
// use, and evicts from the head until at most MaxTurns remain. All turns of
// one call are applied atomically.
func (s *Store) Append(id string, turns ...Turn) {
	if len(turns) == 0 {
		return
	}
	convo := s.getOrCreate(id)

	convo.mu.Lock()
	defer convo.mu.Unlock()

	convo.turns = append(convo.turns, turns...)
	if excess := len(convo.turns) - MaxTurns; excess > 0 {
		convo.turns = append([]Turn(nil), convo.turns[excess:]...)
	}
}

// History returns a copy of the conversation's turns in chronological order.
// Unknown ids yield an empty slice.
func (s *Store) History(id string) []Turn {
	id = NormalizeID(id)

	s.mu.RLock()
	convo, ok := s.convos[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	convo.mu.Lock()
	defer convo.mu.Unlock()
	out := make([]Turn, len(convo.turns))
	copy(out, convo.turns)
	return out
}

// Clear removes the conversation entirely. Clearing an unknown id is a no-op.
func (s *Store) Clear(id string) {
	id = NormalizeID(id)

	s.mu.Lock()
	delete(s.convos, id)
	s.mu.Unlock()
}

// lastTurns returns up to n of the most recent turns, preserving order.
func lastTurns(history []Turn, n int) []Turn {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
