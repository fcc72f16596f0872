package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment is a ledger entry for money received from a student. Amount is
// always positive; refunds are out of scope.
type Payment struct {
	ID        int64     `json:"id"`
	ReceiptID uuid.UUID `json:"receipt_id"`
	TeacherID int64     `json:"teacher_id"`
	StudentID int64     `json:"student_id"`
	Amount    int       `json:"amount"` // cents
	CreatedAt time.Time `json:"created_at"`
}
