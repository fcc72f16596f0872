package repository

import (
	"context"
	"fmt"

	"tutor-service/internal/model"
	"tutor-service/internal/repository/base"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeacherRepository struct {
	*base.Repository
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{Repository: base.NewRepository(pool)}
}

const teacherColumns = `id, user_id, price, lesson_duration, telegram_chat_id, created_at`

// GetByID returns the teacher or nil when none exists.
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = $1`

	teacher := &model.Teacher{}
	err := r.QueryRow(ctx, query, id).Scan(
		&teacher.ID,
		&teacher.UserID,
		&teacher.Price,
		&teacher.LessonDuration,
		&teacher.TelegramChatID,
		&teacher.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}

	return teacher, nil
}

// GetByUserID resolves the teacher owning the given user account.
func (r *TeacherRepository) GetByUserID(ctx context.Context, userID int64) (*model.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE user_id = $1`

	teacher := &model.Teacher{}
	err := r.QueryRow(ctx, query, userID).Scan(
		&teacher.ID,
		&teacher.UserID,
		&teacher.Price,
		&teacher.LessonDuration,
		&teacher.TelegramChatID,
		&teacher.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by user id: %w", err)
	}

	return teacher, nil
}

// GetNotifiable returns the teachers that connected a Telegram chat, for the
// daily digest.
func (r *TeacherRepository) GetNotifiable(ctx context.Context) ([]*model.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE telegram_chat_id IS NOT NULL ORDER BY id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get notifiable teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*model.Teacher
	for rows.Next() {
		teacher := &model.Teacher{}
		err := rows.Scan(
			&teacher.ID,
			&teacher.UserID,
			&teacher.Price,
			&teacher.LessonDuration,
			&teacher.TelegramChatID,
			&teacher.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, teacher)
	}

	return teachers, nil
}
