package orchestrator

import (
	"fmt"
	"testing"
)

func TestStoreRetainsMostRecentTurns(t *testing.T) {
	store := NewStore()
	for i := 0; i < 25; i++ {
		store.Append("c1", Turn{Role: RoleUser, Content: fmt.Sprintf("msg-%d", i)})

		history := store.History("c1")
		want := i + 1
		if want > MaxTurns {
			want = MaxTurns
		}
		if len(history) != want {
			t.Fatalf("after %d appends: expected %d turns, got %d", i+1, want, len(history))
		}
	}

	history := store.History("c1")
	if history[0].Content != "msg-15" || history[len(history)-1].Content != "msg-24" {
		t.Fatalf("expected the 10 most recent turns, got %q..%q", history[0].Content, history[len(history)-1].Content)
	}
}

func TestStoreAppendIsAtomicPerCall(t *testing.T) {
	store := NewStore()
	store.Append("c1",
		Turn{Role: RoleUser, Content: "question"},
		Turn{Role: RoleAssistant, Content: "[Tool call: get_profile]"},
		Turn{Role: RoleAssistant, Content: "answer"},
	)

	history := store.History("c1")
	if len(history) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(history))
	}
	if history[1].Content != "[Tool call: get_profile]" {
		t.Fatalf("turn order not preserved: %v", history)
	}
}

func TestStoreUnknownConversation(t *testing.T) {
	store := NewStore()
	if history := store.History("nope"); len(history) != 0 {
		t.Fatalf("expected empty history, got %v", history)
	}
	// Clearing an unknown id must not error or create state.
	store.Clear("nope")
	if history := store.History("nope"); len(history) != 0 {
		t.Fatalf("clear should not create conversations")
	}
}

func TestStoreClearStartsFresh(t *testing.T) {
	store := NewStore()
	store.Append("c1", Turn{Role: RoleUser, Content: "hello"})
	store.Clear("c1")
	if history := store.History("c1"); len(history) != 0 {
		t.Fatalf("expected cleared history, got %v", history)
	}
	store.Append("c1", Turn{Role: RoleUser, Content: "again"})
	if history := store.History("c1"); len(history) != 1 || history[0].Content != "again" {
		t.Fatalf("expected fresh conversation, got %v", history)
	}
}

func TestNormalizeID(t *testing.T) {
	if got := NormalizeID(""); got != DefaultConversationID {
		t.Fatalf("expected default id, got %q", got)
	}
	if got := NormalizeID("  room-7  "); got != "room-7" {
		t.Fatalf("expected trimmed id, got %q", got)
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Append("c1", Turn{Role: RoleUser, Content: "original"})

	history := store.History("c1")
	history[0].Content = "mutated"

	if got := store.History("c1")[0].Content; got != "original" {
		t.Fatalf("history should be a copy, got %q", got)
	}
}
