package dto

import "time"

type DailyActivity struct {
	Date         string `json:"date"`
	MessageCount int    `json:"message_count"`
}

type UsageStatsResponse struct {
	PeriodDays            int             `json:"period_days"`
	TotalSessions         int64           `json:"total_sessions"`
	TotalMessages         int64           `json:"total_messages"`
	AvgMessagesPerSession float64         `json:"avg_messages_per_session"`
	DailyActivity         []DailyActivity `json:"daily_activity"`
	GeneratedAt           time.Time       `json:"generated_at"`
}
