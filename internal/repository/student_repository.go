package repository

import (
	"context"
	"fmt"

	"tutor-service/internal/model"
	"tutor-service/internal/repository/base"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StudentRepository struct {
	*base.Repository
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{Repository: base.NewRepository(pool)}
}

// Create persists a new student under the teacher.
func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	query := `
		INSERT INTO students (teacher_id, user_id, creator_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		student.TeacherID,
		student.UserID,
		student.CreatorID,
	).Scan(&student.ID, &student.CreatedAt)

	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

// GetByID returns the student only when it belongs to the teacher.
func (r *StudentRepository) GetByID(ctx context.Context, teacherID, id int64) (*model.Student, error) {
	query := `
		SELECT id, teacher_id, user_id, creator_id, created_at
		FROM students
		WHERE id = $1 AND teacher_id = $2
	`

	student := &model.Student{}
	err := r.QueryRow(ctx, query, id, teacherID).Scan(
		&student.ID,
		&student.TeacherID,
		&student.UserID,
		&student.CreatorID,
		&student.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return student, nil
}

// List returns the teacher's students with their derived balance, applying
// the typed filter, order and limit of q. Balance is payments received minus
// lessons taken at the teacher's price.
func (r *StudentRepository) List(ctx context.Context, teacherID int64, q ListQuery) ([]*model.Student, error) {
	query := `
		SELECT s.id, s.teacher_id, s.user_id, s.creator_id, s.created_at,
		       u.id, u.email, u.name, u.area, u.created_at,
		       COALESCE(p.total, 0) - COALESCE(l.cnt, 0) * t.price AS balance
		FROM students s
		JOIN users u ON u.id = s.user_id
		JOIN teachers t ON t.id = s.teacher_id
		LEFT JOIN (
			SELECT student_id, SUM(amount) AS total FROM payments GROUP BY student_id
		) p ON p.student_id = s.id
		LEFT JOIN (
			SELECT student_id, COUNT(*) AS cnt FROM lessons GROUP BY student_id
		) l ON l.student_id = s.id
		WHERE s.teacher_id = $1
	`

	args := []interface{}{teacherID}
	if q.NameFilter != nil {
		cond, value := q.NameFilter.condition("u.name", len(args)+1)
		query += " AND " + cond
		args = append(args, value)
	}

	query += " ORDER BY " + q.orderClause()
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, q.Limit)
	}

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		student := &model.Student{User: &model.User{}}
		err := rows.Scan(
			&student.ID,
			&student.TeacherID,
			&student.UserID,
			&student.CreatorID,
			&student.CreatedAt,
			&student.User.ID,
			&student.User.Email,
			&student.User.Name,
			&student.User.Area,
			&student.User.CreatedAt,
			&student.Balance,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, student)
	}

	return students, nil
}
