package model

import (
	"time"

	"tutor-service/internal/schedule"
)

// Lesson is a booked lesson. Its existence blocks the matching portion of
// the teacher's availability.
type Lesson struct {
	ID           int64     `json:"id"`
	TeacherID    int64     `json:"teacher_id"`
	StudentID    int64     `json:"student_id"`
	CreatorID    int64     `json:"creator_id"` // user who booked the lesson
	Date         time.Time `json:"date"`
	Duration     int       `json:"duration"` // minutes, always > 0
	MeetupPlace  string    `json:"meetup_place"`
	DropoffPlace string    `json:"dropoff_place"`
	CreatedAt    time.Time `json:"created_at"`

	// Convenience fields for notifications, not stored on the row
	Student *Student `json:"student,omitempty"`
}

// Interval returns the half-open time range the lesson occupies.
func (l *Lesson) Interval() schedule.Interval {
	return schedule.Interval{
		Start: l.Date,
		End:   l.Date.Add(time.Duration(l.Duration) * time.Minute),
	}
}
