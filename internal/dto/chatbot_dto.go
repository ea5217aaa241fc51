package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title string `json:"title"` // optional; a randomized default is assigned when empty
}

type SessionResponse struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	MessageCount int        `json:"message_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type RenameSessionRequest struct {
	Title string `json:"title" validate:"required"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	ToolsUsed []string  `json:"tools_used,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatRequest struct {
	ChatSessionId   uuid.UUID        `json:"chat_session_id" validate:"required"`
	Chat            string           `json:"chat" validate:"required"`
	BusinessContext *BusinessContext `json:"business_context,omitempty"` // request-level overrides, merged with the profile
}

type SendChatResponseChat struct {
	Id        uuid.UUID `json:"id"`
	Chat      string    `json:"chat"`
	Role      string    `json:"role"`
	ToolsUsed []string  `json:"tools_used,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatResponse struct {
	ChatSessionId    uuid.UUID             `json:"chat_session_id"`
	ChatSessionTitle string                `json:"title"`
	Sent             *SendChatResponseChat `json:"sent"`
	Reply            *SendChatResponseChat `json:"reply"`
	Degraded         bool                  `json:"degraded,omitempty"` // reply is the fallback text, upstream failed
}

// ChatTurnEvent is published on the in-process bus after every committed chat
// turn; the stream hub fans it out to connected clients.
type ChatTurnEvent struct {
	UserId        uuid.UUID `json:"user_id"`
	ChatSessionId uuid.UUID `json:"chat_session_id"`
	SessionTitle  string    `json:"title"`
	Reply         string    `json:"reply"`
	ToolsUsed     []string  `json:"tools_used,omitempty"`
	Degraded      bool      `json:"degraded"`
	CreatedAt     time.Time `json:"created_at"`
}
