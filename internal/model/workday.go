package model

import (
	"time"

	"tutor-service/internal/schedule"
)

// WorkDay is a teacher-defined window of bookable time. A row either recurs
// on a weekday (OnDate nil) or applies to one specific calendar date, which
// takes precedence over recurring rows for that date. Rows are never mutated
// in place; changes are delete plus recreate.
type WorkDay struct {
	ID          int64        `json:"id"`
	TeacherID   int64        `json:"teacher_id"`
	Day         time.Weekday `json:"day"` // 0 = Sunday, 6 = Saturday
	FromHour    int          `json:"from_hour"`
	FromMinutes int          `json:"from_minutes"`
	ToHour      int          `json:"to_hour"`
	ToMinutes   int          `json:"to_minutes"`
	OnDate      *time.Time   `json:"on_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// SpanMinutes returns the window length in minutes of day. A non-positive
// result means the window is invalid and must be rejected at creation.
func (w *WorkDay) SpanMinutes() int {
	return (w.ToHour*60 + w.ToMinutes) - (w.FromHour*60 + w.FromMinutes)
}

// Anchor resolves the wall-clock window against a calendar date.
func (w *WorkDay) Anchor(date time.Time) schedule.Interval {
	return schedule.Interval{
		Start: time.Date(date.Year(), date.Month(), date.Day(), w.FromHour, w.FromMinutes, 0, 0, date.Location()),
		End:   time.Date(date.Year(), date.Month(), date.Day(), w.ToHour, w.ToMinutes, 0, 0, date.Location()),
	}
}
