package model

import "time"

// Student links a user account to the teacher it studies with. Balance is
// derived from payments minus lesson costs and is filled by list queries,
// never stored.
type Student struct {
	ID        int64     `json:"student_id"`
	TeacherID int64     `json:"teacher_id"`
	UserID    int64     `json:"user_id"`
	CreatorID int64     `json:"creator_id"`
	Balance   int       `json:"balance"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty"`
}
