package service

import (
	"context"
	"time"

	"bi-copilot-be/internal/dto"
	"bi-copilot-be/internal/repository/specification"
	"bi-copilot-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAnalyticsService interface {
	GetUsageStats(ctx context.Context, userId uuid.UUID, periodDays int) (*dto.UsageStatsResponse, error)
}

type analyticsService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAnalyticsService(uowFactory unitofwork.RepositoryFactory) IAnalyticsService {
	return &analyticsService{uowFactory: uowFactory}
}

func (s *analyticsService) GetUsageStats(ctx context.Context, userId uuid.UUID, periodDays int) (*dto.UsageStatsResponse, error) {
	if periodDays <= 0 || periodDays > 365 {
		periodDays = 30
	}
	since := time.Now().AddDate(0, 0, -periodDays)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	totalSessions, err := uow.ChatSessionRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.CreatedAfter{At: since},
	)
	if err != nil {
		return nil, err
	}

	totalMessages, err := uow.ChatMessageRepository().CountForUser(ctx, userId, since)
	if err != nil {
		return nil, err
	}

	daily, err := uow.ChatMessageRepository().DailyActivityForUser(ctx, userId, since, periodDays)
	if err != nil {
		return nil, err
	}

	activity := make([]dto.DailyActivity, 0, len(daily))
	for _, d := range daily {
		activity = append(activity, dto.DailyActivity{
			Date:         d.Date.Format("2006-01-02"),
			MessageCount: d.Count,
		})
	}

	var avg float64
	if totalSessions > 0 {
		avg = float64(totalMessages) / float64(totalSessions)
	}

	return &dto.UsageStatsResponse{
		PeriodDays:            periodDays,
		TotalSessions:         totalSessions,
		TotalMessages:         totalMessages,
		AvgMessagesPerSession: avg,
		DailyActivity:         activity,
		GeneratedAt:           time.Now(),
	}, nil
}
