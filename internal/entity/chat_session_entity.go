package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id     uuid.UUID
	UserId uuid.UUID
	Title  string
	// TitleGenerated marks that the heuristic title has been applied. It is
	// the authoritative rename-once guard, checked inside the send
	// transaction, never a client-supplied flag.
	TitleGenerated bool
	MessageCount   int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
