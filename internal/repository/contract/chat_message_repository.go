package contract

import (
	"context"
	"time"

	"bi-copilot-be/internal/entity"
	"bi-copilot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DailyMessageCount struct {
	Date  time.Time
	Count int
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Analytics helpers; both scope through chat_sessions ownership.
	CountForUser(ctx context.Context, userId uuid.UUID, since time.Time) (int64, error)
	DailyActivityForUser(ctx context.Context, userId uuid.UUID, since time.Time, limit int) ([]DailyMessageCount, error)
}
