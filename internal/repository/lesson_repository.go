package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutor-service/internal/model"
	"tutor-service/internal/repository/base"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrLessonOverlap is returned when the lessons exclusion constraint rejects
// a booking whose time range collides with an existing lesson.
var ErrLessonOverlap = errors.New("lesson time already taken")

type LessonRepository struct {
	*base.Repository
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{Repository: base.NewRepository(pool)}
}

// Create persists a booked lesson. The database serializes concurrent
// bookings through an EXCLUDE constraint on the occupied time range, so a
// lost race surfaces here as ErrLessonOverlap rather than a double booking.
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (teacher_id, student_id, creator_id, date, duration, meetup_place, dropoff_place)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		lesson.TeacherID,
		lesson.StudentID,
		lesson.CreatorID,
		lesson.Date,
		lesson.Duration,
		lesson.MeetupPlace,
		lesson.DropoffPlace,
	).Scan(&lesson.ID, &lesson.CreatedAt)

	if err != nil {
		if base.IsExclusionViolation(err) {
			return ErrLessonOverlap
		}
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// GetBetween returns the teacher's lessons starting inside [from, to], both
// boundaries inclusive, ordered by start time.
func (r *LessonRepository) GetBetween(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.Lesson, error) {
	query := `
		SELECT id, teacher_id, student_id, creator_id, date, duration, meetup_place, dropoff_place, created_at
		FROM lessons
		WHERE teacher_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date
	`

	rows, err := r.Query(ctx, query, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get lessons between: %w", err)
	}
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		lesson := &model.Lesson{}
		err := rows.Scan(
			&lesson.ID,
			&lesson.TeacherID,
			&lesson.StudentID,
			&lesson.CreatorID,
			&lesson.Date,
			&lesson.Duration,
			&lesson.MeetupPlace,
			&lesson.DropoffPlace,
			&lesson.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	return lessons, nil
}
