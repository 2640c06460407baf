package model

import "time"

// User stores Telegram chat metadata and the daily plan subscription.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	LastName   string
	Username   string
	DailyPlan  bool `gorm:"default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
