package service

import (
	"context"
	"time"

	"tutor-service/internal/model"
	"tutor-service/internal/repository"
)

// Store interfaces are implemented by the pgx repositories and by in-memory
// fakes in tests. Services receive them by injection; nothing here is
// ambient.

type TeacherStore interface {
	GetByID(ctx context.Context, id int64) (*model.Teacher, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Teacher, error)
	GetNotifiable(ctx context.Context) ([]*model.Teacher, error)
}

type WorkDayStore interface {
	Create(ctx context.Context, day *model.WorkDay) error
	GetByTeacherID(ctx context.Context, teacherID int64) ([]*model.WorkDay, error)
	GetByDate(ctx context.Context, teacherID int64, date time.Time) ([]*model.WorkDay, error)
	GetByWeekday(ctx context.Context, teacherID int64, weekday time.Weekday) ([]*model.WorkDay, error)
	Delete(ctx context.Context, teacherID, id int64) (int64, error)
}

type LessonStore interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetBetween(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Lesson, error)
}

type StudentStore interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, teacherID, id int64) (*model.Student, error)
	List(ctx context.Context, teacherID int64, q repository.ListQuery) ([]*model.Student, error)
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type PaymentStore interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByStudentID(ctx context.Context, teacherID, studentID int64) ([]*model.Payment, error)
}

// Notifier delivers a short message to a teacher's chat. Implementations
// must be safe to call concurrently.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}
