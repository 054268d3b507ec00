package history

import (
	"context"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one side of a conversation turn.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// History is an append-only transcript log keyed by session id.
type History interface {
	Append(ctx context.Context, sessionId string, msg Message) error
	List(ctx context.Context, sessionId string) ([]Message, error)
	Clear(ctx context.Context, sessionId string) error
}
