package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutor-service/internal/model"
	"tutor-service/internal/repository"

	"go.uber.org/zap"
)

type BookingService struct {
	teacherRepo          TeacherStore
	studentRepo          StudentStore
	lessonRepo           LessonStore
	notifier             Notifier
	defaultLessonMinutes int
	logger               *zap.Logger
}

func NewBookingService(
	teacherRepo TeacherStore,
	studentRepo StudentStore,
	lessonRepo LessonStore,
	notifier Notifier,
	defaultLessonMinutes int,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		teacherRepo:          teacherRepo,
		studentRepo:          studentRepo,
		lessonRepo:           lessonRepo,
		notifier:             notifier,
		defaultLessonMinutes: defaultLessonMinutes,
		logger:               logger,
	}
}

// BookLessonInput carries a booking request. Duration zero means the
// teacher's configured lesson length.
type BookLessonInput struct {
	TeacherID    int64
	StudentID    int64
	CreatorID    int64
	Date         time.Time
	Duration     int
	MeetupPlace  string
	DropoffPlace string
}

// BookLesson books a lesson for a student. Overlap with an existing lesson
// is arbitrated by the database exclusion constraint, so the check and the
// insert cannot race.
func (s *BookingService) BookLesson(ctx context.Context, in BookLessonInput) (*model.Lesson, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, in.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return nil, &NotFoundError{Message: msgTeacherNotExist}
	}

	student, err := s.studentRepo.GetByID(ctx, in.TeacherID, in.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, &ValidationError{Message: msgStudentNotExist}
	}

	duration := in.Duration
	if duration <= 0 {
		duration = teacher.LessonDuration
		if duration <= 0 {
			duration = s.defaultLessonMinutes
		}
	}

	lesson := &model.Lesson{
		TeacherID:    in.TeacherID,
		StudentID:    in.StudentID,
		CreatorID:    in.CreatorID,
		Date:         in.Date,
		Duration:     duration,
		MeetupPlace:  in.MeetupPlace,
		DropoffPlace: in.DropoffPlace,
	}

	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		if errors.Is(err, repository.ErrLessonOverlap) {
			return nil, &ValidationError{Message: msgTimeTaken}
		}
		return nil, fmt.Errorf("create lesson: %w", err)
	}

	s.logger.Info("Lesson booked",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("teacher_id", lesson.TeacherID),
		zap.Int64("student_id", lesson.StudentID),
		zap.Time("date", lesson.Date),
		zap.Int("duration", lesson.Duration),
	)

	if s.notifier != nil && teacher.TelegramChatID != nil {
		text := fmt.Sprintf("New lesson booked: %s, %d min, student #%d.",
			lesson.Date.Format("2006-01-02 15:04"), lesson.Duration, lesson.StudentID)
		if err := s.notifier.Send(ctx, *teacher.TelegramChatID, text); err != nil {
			s.logger.Warn("Failed to notify teacher about booking",
				zap.Int64("teacher_id", teacher.ID),
				zap.Error(err))
		}
	}

	return lesson, nil
}
