package service

import (
	"context"
	"fmt"
	"time"

	"tutor-service/internal/model"
	"tutor-service/internal/repository"
	"tutor-service/internal/schedule"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TeacherService struct {
	teacherRepo          TeacherStore
	workDayRepo          WorkDayStore
	lessonRepo           LessonStore
	studentRepo          StudentStore
	userRepo             UserStore
	paymentRepo          PaymentStore
	notifier             Notifier
	defaultLessonMinutes int
	logger               *zap.Logger

	// now is swapped in tests to pin "today"
	now func() time.Time
}

func NewTeacherService(
	teacherRepo TeacherStore,
	workDayRepo WorkDayStore,
	lessonRepo LessonStore,
	studentRepo StudentStore,
	userRepo UserStore,
	paymentRepo PaymentStore,
	notifier Notifier,
	defaultLessonMinutes int,
	logger *zap.Logger,
) *TeacherService {
	return &TeacherService{
		teacherRepo:          teacherRepo,
		workDayRepo:          workDayRepo,
		lessonRepo:           lessonRepo,
		studentRepo:          studentRepo,
		userRepo:             userRepo,
		paymentRepo:          paymentRepo,
		notifier:             notifier,
		defaultLessonMinutes: defaultLessonMinutes,
		logger:               logger,
		now:                  time.Now,
	}
}

// TeacherByUserID resolves the teacher owning a user account, for the
// principal middleware.
func (s *TeacherService) TeacherByUserID(ctx context.Context, userID int64) (*model.Teacher, error) {
	return s.teacherRepo.GetByUserID(ctx, userID)
}

// AddWorkDay validates and persists a work day. The window must have a
// positive length in minutes of day; hour and minute ranges are the boundary
// layer's concern.
func (s *TeacherService) AddWorkDay(ctx context.Context, teacherID int64, day *model.WorkDay) (*model.WorkDay, error) {
	if day.SpanMinutes() <= 0 {
		return nil, &ValidationError{Message: msgTimeDifference}
	}

	day.TeacherID = teacherID
	if err := s.workDayRepo.Create(ctx, day); err != nil {
		return nil, fmt.Errorf("create work day: %w", err)
	}

	s.logger.Info("Work day created",
		zap.Int64("work_day_id", day.ID),
		zap.Int64("teacher_id", teacherID),
		zap.Int("day", int(day.Day)),
		zap.Int("from_hour", day.FromHour),
		zap.Int("to_hour", day.ToHour),
	)

	return day, nil
}

// WorkDays lists the teacher's work days, optionally narrowed to one
// calendar date.
func (s *TeacherService) WorkDays(ctx context.Context, teacherID int64, onDate *time.Time) ([]*model.WorkDay, error) {
	if onDate != nil {
		return s.workDayRepo.GetByDate(ctx, teacherID, *onDate)
	}
	return s.workDayRepo.GetByTeacherID(ctx, teacherID)
}

// DeleteWorkDay removes a work day owned by the teacher.
func (s *TeacherService) DeleteWorkDay(ctx context.Context, teacherID, id int64) error {
	affected, err := s.workDayRepo.Delete(ctx, teacherID, id)
	if err != nil {
		return fmt.Errorf("delete work day: %w", err)
	}

	if affected == 0 {
		return &NotFoundError{Message: msgWorkDayNotExist}
	}

	s.logger.Info("Work day deleted",
		zap.Int64("work_day_id", id),
		zap.Int64("teacher_id", teacherID),
	)

	return nil
}

// AvailableHours computes the teacher's free slots on a date for lessons of
// durationMinutes. A non-positive duration means the teacher's configured
// lesson length. No applicable work day yields an empty result, not an
// error.
func (s *TeacherService) AvailableHours(ctx context.Context, teacherID int64, date time.Time, durationMinutes int) ([]schedule.Slot, error) {
	if durationMinutes <= 0 {
		var err error
		durationMinutes, err = s.lessonLength(ctx, teacherID)
		if err != nil {
			return nil, err
		}
	}

	days, err := s.applicableWorkDays(ctx, teacherID, date)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, nil
	}

	work := make([]schedule.Interval, 0, len(days))
	for _, day := range days {
		work = append(work, day.Anchor(date))
	}

	// The lesson span must cover the full anchored windows: a lesson that
	// started before now can still be running, and clamping first would let
	// it escape subtraction.
	from, to := span(work)
	lessons, err := s.lessonRepo.GetBetween(ctx, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get lessons for availability: %w", err)
	}

	busy := make([]schedule.Interval, 0, len(lessons))
	for _, lesson := range lessons {
		busy = append(busy, lesson.Interval())
	}

	free := s.clampToNow(schedule.Free(work, busy), date)
	return schedule.Slots(free, time.Duration(durationMinutes)*time.Minute), nil
}

// applicableWorkDays resolves the work days for a date: rows pinned to the
// date win; otherwise the recurring rows for its weekday apply. Several rows
// may match (split shifts).
func (s *TeacherService) applicableWorkDays(ctx context.Context, teacherID int64, date time.Time) ([]*model.WorkDay, error) {
	days, err := s.workDayRepo.GetByDate(ctx, teacherID, date)
	if err != nil {
		return nil, fmt.Errorf("get work days by date: %w", err)
	}
	if len(days) > 0 {
		return days, nil
	}

	days, err = s.workDayRepo.GetByWeekday(ctx, teacherID, date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("get work days by weekday: %w", err)
	}
	return days, nil
}

// clampToNow drops or shortens intervals so no past slot is offered when the
// requested date is today.
func (s *TeacherService) clampToNow(work []schedule.Interval, date time.Time) []schedule.Interval {
	now := s.now().In(date.Location())
	if !sameDate(now, date) {
		return work
	}

	kept := work[:0]
	for _, iv := range work {
		if !iv.End.After(now) {
			continue
		}
		if iv.Start.Before(now) {
			iv.Start = now
		}
		kept = append(kept, iv)
	}
	return kept
}

// lessonLength returns the teacher's configured lesson length, falling back
// to the service default.
func (s *TeacherService) lessonLength(ctx context.Context, teacherID int64) (int, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, teacherID)
	if err != nil {
		return 0, fmt.Errorf("get teacher: %w", err)
	}
	if teacher != nil && teacher.LessonDuration > 0 {
		return teacher.LessonDuration, nil
	}
	return s.defaultLessonMinutes, nil
}

// AddPayment records money received from a student of the teacher.
func (s *TeacherService) AddPayment(ctx context.Context, teacherID, studentID int64, amount *int) (*model.Payment, error) {
	if amount == nil {
		return nil, &ValidationError{Message: msgAmountMissing}
	}
	if *amount <= 0 {
		return nil, &ValidationError{Message: msgAmountNotPositive}
	}

	student, err := s.studentRepo.GetByID(ctx, teacherID, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, &ValidationError{Message: msgStudentNotExist}
	}

	payment := &model.Payment{
		ReceiptID: uuid.New(),
		TeacherID: teacherID,
		StudentID: studentID,
		Amount:    *amount,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.logger.Info("Payment recorded",
		zap.Int64("payment_id", payment.ID),
		zap.String("receipt_id", payment.ReceiptID.String()),
		zap.Int64("teacher_id", teacherID),
		zap.Int64("student_id", studentID),
		zap.Int("amount", payment.Amount),
	)

	s.notifyTeacher(ctx, teacherID, fmt.Sprintf("Payment of %d received from student #%d.", payment.Amount, studentID))

	return payment, nil
}

// StudentPayments lists the payments recorded for one of the teacher's
// students, newest first.
func (s *TeacherService) StudentPayments(ctx context.Context, teacherID, studentID int64) ([]*model.Payment, error) {
	student, err := s.studentRepo.GetByID(ctx, teacherID, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, &ValidationError{Message: msgStudentNotExist}
	}

	return s.paymentRepo.GetByStudentID(ctx, teacherID, studentID)
}

// AddStudentInput describes the person the teacher signs up. The user
// account is created alongside the student row.
type AddStudentInput struct {
	Name  string
	Email string
	Area  string
}

// AddStudent registers a new student under the teacher, creating the backing
// user account.
func (s *TeacherService) AddStudent(ctx context.Context, teacherID, creatorID int64, in AddStudentInput) (*model.Student, error) {
	if in.Name == "" {
		return nil, &ValidationError{Message: "Name must be given."}
	}
	if in.Email == "" {
		return nil, &ValidationError{Message: "Email must be given."}
	}

	user := &model.User{
		Email: in.Email,
		Name:  in.Name,
		Area:  in.Area,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	student := &model.Student{
		TeacherID: teacherID,
		UserID:    user.ID,
		CreatorID: creatorID,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	student.User = user

	s.logger.Info("Student added",
		zap.Int64("teacher_id", teacherID),
		zap.Int64("student_id", student.ID),
	)

	return student, nil
}

// Students lists the teacher's students with derived balances, applying the
// typed filter, order and limit.
func (s *TeacherService) Students(ctx context.Context, teacherID int64, q repository.ListQuery) ([]*model.Student, error) {
	return s.studentRepo.List(ctx, teacherID, q)
}

// WeekSchedule collects the anchored work intervals and booked lessons of the
// week containing date, for rendering.
func (s *TeacherService) WeekSchedule(ctx context.Context, teacherID int64, date time.Time) ([]schedule.Interval, []*model.Lesson, error) {
	weekStart := schedule.StartOfWeek(date)

	var work []schedule.Interval
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		days, err := s.applicableWorkDays(ctx, teacherID, day)
		if err != nil {
			return nil, nil, err
		}
		for _, d := range days {
			work = append(work, d.Anchor(day))
		}
	}

	lessons, err := s.lessonRepo.GetBetween(ctx, teacherID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, nil, fmt.Errorf("get lessons for week: %w", err)
	}

	return work, lessons, nil
}

// SendDailyDigests sends every notifiable teacher a summary of tomorrow's
// lessons. Failures are logged per teacher and never abort the run.
func (s *TeacherService) SendDailyDigests(ctx context.Context) error {
	if s.notifier == nil {
		return nil
	}

	teachers, err := s.teacherRepo.GetNotifiable(ctx)
	if err != nil {
		return fmt.Errorf("get notifiable teachers: %w", err)
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)

	for _, teacher := range teachers {
		lessons, err := s.lessonRepo.GetBetween(ctx, teacher.ID, dayStart, dayEnd)
		if err != nil {
			s.logger.Error("Failed to load lessons for digest",
				zap.Int64("teacher_id", teacher.ID),
				zap.Error(err))
			continue
		}
		if len(lessons) == 0 {
			continue
		}

		text := fmt.Sprintf("You have %d lesson(s) tomorrow:", len(lessons))
		for _, lesson := range lessons {
			text += fmt.Sprintf("\n%s, %d min, %s",
				lesson.Date.Format("15:04"), lesson.Duration, s.studentLabel(ctx, teacher.ID, lesson.StudentID))
		}

		if err := s.notifier.Send(ctx, *teacher.TelegramChatID, text); err != nil {
			s.logger.Error("Failed to send digest",
				zap.Int64("teacher_id", teacher.ID),
				zap.Error(err))
		}
	}

	return nil
}

// studentLabel resolves a student's display name for notification text,
// falling back to the numeric id when lookups come up empty.
func (s *TeacherService) studentLabel(ctx context.Context, teacherID, studentID int64) string {
	student, err := s.studentRepo.GetByID(ctx, teacherID, studentID)
	if err != nil || student == nil {
		return fmt.Sprintf("student #%d", studentID)
	}

	user := student.User
	if user == nil {
		user, err = s.userRepo.GetByID(ctx, student.UserID)
		if err != nil || user == nil {
			return fmt.Sprintf("student #%d", studentID)
		}
	}

	return user.Name
}

// notifyTeacher delivers a best-effort Telegram message; delivery failures
// are logged, never returned.
func (s *TeacherService) notifyTeacher(ctx context.Context, teacherID int64, text string) {
	if s.notifier == nil {
		return
	}

	teacher, err := s.teacherRepo.GetByID(ctx, teacherID)
	if err != nil || teacher == nil || teacher.TelegramChatID == nil {
		return
	}

	if err := s.notifier.Send(ctx, *teacher.TelegramChatID, text); err != nil {
		s.logger.Warn("Failed to notify teacher",
			zap.Int64("teacher_id", teacherID),
			zap.Error(err))
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func span(intervals []schedule.Interval) (time.Time, time.Time) {
	from, to := intervals[0].Start, intervals[0].End
	for _, iv := range intervals[1:] {
		if iv.Start.Before(from) {
			from = iv.Start
		}
		if iv.End.After(to) {
			to = iv.End
		}
	}
	return from, to
}
