package assistantports

import (
	"context"
	"time"
)

// Message roles. Messages are immutable once appended.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversational turn.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore persists rolling conversation history per conversation id.
// Implementations bound history to the most recent turns; concurrent turns
// on the same conversation id are last-writer-wins.
type SessionStore interface {
	Append(ctx context.Context, conversationID string, msg Message) error
	History(ctx context.Context, conversationID string, k int) ([]Message, error) // last-k turns, oldest first
	Clear(ctx context.Context) error
}
