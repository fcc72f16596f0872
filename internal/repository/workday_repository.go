package repository

import (
	"context"
	"fmt"
	"time"

	"tutor-service/internal/model"
	"tutor-service/internal/repository/base"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WorkDayRepository struct {
	*base.Repository
}

func NewWorkDayRepository(pool *pgxpool.Pool) *WorkDayRepository {
	return &WorkDayRepository{Repository: base.NewRepository(pool)}
}

// Create persists a new work day for the teacher.
func (r *WorkDayRepository) Create(ctx context.Context, day *model.WorkDay) error {
	query := `
		INSERT INTO work_days (teacher_id, day, from_hour, from_minutes, to_hour, to_minutes, on_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		day.TeacherID,
		int(day.Day),
		day.FromHour,
		day.FromMinutes,
		day.ToHour,
		day.ToMinutes,
		day.OnDate,
	).Scan(&day.ID, &day.CreatedAt)

	if err != nil {
		return fmt.Errorf("create work day: %w", err)
	}

	return nil
}

// GetByTeacherID returns every work day of the teacher, recurring and
// date-specific alike.
func (r *WorkDayRepository) GetByTeacherID(ctx context.Context, teacherID int64) ([]*model.WorkDay, error) {
	query := `
		SELECT id, teacher_id, day, from_hour, from_minutes, to_hour, to_minutes, on_date, created_at
		FROM work_days
		WHERE teacher_id = $1
		ORDER BY day, from_hour, from_minutes
	`

	rows, err := r.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get work days by teacher: %w", err)
	}
	defer rows.Close()

	return scanWorkDays(rows)
}

// GetByDate returns the date-specific work days pinned to the given calendar
// date.
func (r *WorkDayRepository) GetByDate(ctx context.Context, teacherID int64, date time.Time) ([]*model.WorkDay, error) {
	query := `
		SELECT id, teacher_id, day, from_hour, from_minutes, to_hour, to_minutes, on_date, created_at
		FROM work_days
		WHERE teacher_id = $1 AND on_date = $2
		ORDER BY from_hour, from_minutes
	`

	rows, err := r.Query(ctx, query, teacherID, date)
	if err != nil {
		return nil, fmt.Errorf("get work days by date: %w", err)
	}
	defer rows.Close()

	return scanWorkDays(rows)
}

// GetByWeekday returns the recurring work days for the weekday. Rows pinned
// to a date are excluded; callers resolve precedence.
func (r *WorkDayRepository) GetByWeekday(ctx context.Context, teacherID int64, weekday time.Weekday) ([]*model.WorkDay, error) {
	query := `
		SELECT id, teacher_id, day, from_hour, from_minutes, to_hour, to_minutes, on_date, created_at
		FROM work_days
		WHERE teacher_id = $1 AND on_date IS NULL AND day = $2
		ORDER BY from_hour, from_minutes
	`

	rows, err := r.Query(ctx, query, teacherID, int(weekday))
	if err != nil {
		return nil, fmt.Errorf("get work days by weekday: %w", err)
	}
	defer rows.Close()

	return scanWorkDays(rows)
}

// Delete removes a work day scoped to its owning teacher and returns the
// number of deleted rows.
func (r *WorkDayRepository) Delete(ctx context.Context, teacherID, id int64) (int64, error) {
	query := `DELETE FROM work_days WHERE id = $1 AND teacher_id = $2`

	affected, err := r.ExecAffected(ctx, query, id, teacherID)
	if err != nil {
		return 0, fmt.Errorf("delete work day: %w", err)
	}

	return affected, nil
}

func scanWorkDays(rows pgx.Rows) ([]*model.WorkDay, error) {
	var days []*model.WorkDay
	for rows.Next() {
		day := &model.WorkDay{}
		var weekday int
		err := rows.Scan(
			&day.ID,
			&day.TeacherID,
			&weekday,
			&day.FromHour,
			&day.FromMinutes,
			&day.ToHour,
			&day.ToMinutes,
			&day.OnDate,
			&day.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan work day: %w", err)
		}
		day.Day = time.Weekday(weekday)
		days = append(days, day)
	}

	return days, nil
}
