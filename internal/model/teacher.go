package model

import "time"

// Teacher is the owning aggregate for work days, lessons, students and
// payments. No cross-teacher visibility exists anywhere in the system.
type Teacher struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Price          int       `json:"price"`           // per lesson, in cents
	LessonDuration int       `json:"lesson_duration"` // default lesson length in minutes
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
