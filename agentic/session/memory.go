// Package session provides conversation history stores. The in-memory store
// is the default; the libsql store survives restarts.
package session

import (
	"context"
	"sync"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
)

// DefaultHistoryLimit caps retained messages per conversation.
const DefaultHistoryLimit = 20

// MemoryStore keeps per-conversation history in process memory. Concurrent
// appends to the same conversation are serialized; interleaving across
// requests is last-writer-wins.
type MemoryStore struct {
	mu    sync.Mutex
	turns map[string][]ports.Message
	limit int
}

var _ ports.SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates a store that trims each conversation to limit
// messages, dropping the oldest first. A non-positive limit uses the default.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &MemoryStore{
		turns: make(map[string][]ports.Message),
		limit: limit,
	}
}

func (s *MemoryStore) Append(ctx context.Context, conversationID string, msg ports.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.turns[conversationID], msg)
	if len(turns) > s.limit {
		turns = turns[len(turns)-s.limit:]
	}
	s.turns[conversationID] = turns
	return nil
}

func (s *MemoryStore) History(ctx context.Context, conversationID string, k int) ([]ports.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.turns[conversationID]
	if k > 0 && len(turns) > k {
		turns = turns[len(turns)-k:]
	}
	out := make([]ports.Message, len(turns))
	copy(out, turns)
	return out, nil
}

// Clear drops all conversations.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = make(map[string][]ports.Message)
	return nil
}
