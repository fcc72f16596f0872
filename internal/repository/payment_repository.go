package repository

import (
	"context"
	"fmt"

	"tutor-service/internal/model"
	"tutor-service/internal/repository/base"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	*base.Repository
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{Repository: base.NewRepository(pool)}
}

// Create persists a payment ledger entry.
func (r *PaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (receipt_id, teacher_id, student_id, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		payment.ReceiptID,
		payment.TeacherID,
		payment.StudentID,
		payment.Amount,
	).Scan(&payment.ID, &payment.CreatedAt)

	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

// GetByStudentID returns the payments recorded for one student of the
// teacher, newest first.
func (r *PaymentRepository) GetByStudentID(ctx context.Context, teacherID, studentID int64) ([]*model.Payment, error) {
	query := `
		SELECT id, receipt_id, teacher_id, student_id, amount, created_at
		FROM payments
		WHERE teacher_id = $1 AND student_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, teacherID, studentID)
	if err != nil {
		return nil, fmt.Errorf("get payments by student: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		payment := &model.Payment{}
		err := rows.Scan(
			&payment.ID,
			&payment.ReceiptID,
			&payment.TeacherID,
			&payment.StudentID,
			&payment.Amount,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, nil
}
