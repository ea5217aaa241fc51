package implementation

import (
	"context"
	"errors"
	"time"

	"bi-copilot-be/internal/entity"
	"bi-copilot-be/internal/mapper"
	"bi-copilot-be/internal/model"
	"bi-copilot-be/internal/repository/contract"
	"bi-copilot-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	m := r.mapper.ChatMessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ChatMessageToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("chat_session_id = ?", sessionId).
		Delete(&model.ChatMessage{}).Error
}

func (r *ChatMessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	var m model.ChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatMessageToEntity(&m), nil
}

func (r *ChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var models []model.ChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	messages := make([]*entity.ChatMessage, 0, len(models))
	for i := range models {
		messages = append(messages, r.mapper.ChatMessageToEntity(&models[i]))
	}
	return messages, nil
}

func (r *ChatMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatMessage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChatMessageRepositoryImpl) CountForUser(ctx context.Context, userId uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Joins("JOIN chat_sessions ON chat_sessions.id = chat_messages.chat_session_id").
		Where("chat_sessions.user_id = ?", userId).
		Where("chat_sessions.deleted_at IS NULL").
		Where("chat_messages.created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChatMessageRepositoryImpl) DailyActivityForUser(ctx context.Context, userId uuid.UUID, since time.Time, limit int) ([]contract.DailyMessageCount, error) {
	var rows []contract.DailyMessageCount
	err := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Select("DATE(chat_messages.created_at) AS date, COUNT(*) AS count").
		Joins("JOIN chat_sessions ON chat_sessions.id = chat_messages.chat_session_id").
		Where("chat_sessions.user_id = ?", userId).
		Where("chat_sessions.deleted_at IS NULL").
		Where("chat_messages.created_at >= ?", since).
		Group("DATE(chat_messages.created_at)").
		Order("date DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
