package service

// ValidationError rejects a request before any state is written. The message
// is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError means the referenced row does not exist under the acting
// teacher. Not fatal to the process.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// Caller-facing messages. Tests and API clients match on these, change with
// care.
const (
	msgTimeDifference    = "There must be a positive difference between the from and to hours."
	msgWorkDayNotExist   = "Work day does not exist."
	msgAmountMissing     = "Amount must be given."
	msgAmountNotPositive = "Amount must be positive."
	msgStudentNotExist   = "Student does not exist."
	msgTeacherNotExist   = "Teacher does not exist."
	msgTimeTaken         = "This time is already taken."
)
