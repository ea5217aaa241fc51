package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is append-only: never mutated or reordered after creation.
type ChatMessage struct {
	Id            uuid.UUID
	Chat          string
	Role          string
	ChatSessionId uuid.UUID
	ToolsUsed     []string
	CreatedAt     time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
