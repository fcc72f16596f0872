package rest

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"tutor-service/internal/model"
	"tutor-service/internal/schedule"
)

const dateLayout = "2006-01-02"

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type addWorkDayRequest struct {
	Day         string `json:"day" validate:"required"`
	FromHour    int    `json:"from_hour" validate:"min=0,max=23"`
	FromMinutes int    `json:"from_minutes" validate:"min=0,max=59"`
	ToHour      int    `json:"to_hour" validate:"min=0,max=24"`
	ToMinutes   int    `json:"to_minutes" validate:"min=0,max=59"`
	OnDate      string `json:"on_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r addWorkDayRequest) toModel() (*model.WorkDay, error) {
	day, ok := weekdayByName[r.Day]
	if !ok {
		return nil, fmt.Errorf("unknown day %q", r.Day)
	}

	workDay := &model.WorkDay{
		Day:         day,
		FromHour:    r.FromHour,
		FromMinutes: r.FromMinutes,
		ToHour:      r.ToHour,
		ToMinutes:   r.ToMinutes,
	}
	if r.OnDate != "" {
		onDate, err := time.Parse(dateLayout, r.OnDate)
		if err != nil {
			return nil, fmt.Errorf("parse on_date: %w", err)
		}
		workDay.OnDate = &onDate
	}
	return workDay, nil
}

type availableHoursRequest struct {
	Date     string      `json:"date" validate:"required,datetime=2006-01-02"`
	Duration json.Number `json:"duration"`
}

type addStudentRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Area  string `json:"area"`
}

type addPaymentRequest struct {
	StudentID int64 `json:"student_id" validate:"required"`
	Amount    *int  `json:"amount"`
}

type bookLessonRequest struct {
	TeacherID    int64  `json:"teacher_id" validate:"required"`
	StudentID    int64  `json:"student_id" validate:"required"`
	Date         string `json:"date" validate:"required"`
	Duration     int    `json:"duration" validate:"omitempty,min=0"`
	MeetupPlace  string `json:"meetup_place"`
	DropoffPlace string `json:"dropoff_place"`
}

type workDayResponse struct {
	ID          int64  `json:"id"`
	Day         string `json:"day"`
	FromHour    int    `json:"from_hour"`
	FromMinutes int    `json:"from_minutes"`
	ToHour      int    `json:"to_hour"`
	ToMinutes   int    `json:"to_minutes"`
	OnDate      string `json:"on_date,omitempty"`
}

func toWorkDayResponse(day *model.WorkDay) workDayResponse {
	resp := workDayResponse{
		ID:          day.ID,
		Day:         day.Day.String(),
		FromHour:    day.FromHour,
		FromMinutes: day.FromMinutes,
		ToHour:      day.ToHour,
		ToMinutes:   day.ToMinutes,
	}
	if day.OnDate != nil {
		resp.OnDate = day.OnDate.Format(dateLayout)
	}
	return resp
}

func toWorkDayResponses(days []*model.WorkDay) []workDayResponse {
	out := make([]workDayResponse, 0, len(days))
	for _, day := range days {
		out = append(out, toWorkDayResponse(day))
	}
	return out
}

// Available hours go out as [start, end] pairs.
func toSlotPairs(slots []schedule.Slot) [][2]string {
	out := make([][2]string, 0, len(slots))
	for _, slot := range slots {
		out = append(out, [2]string{
			slot.Start.Format(time.RFC3339),
			slot.End.Format(time.RFC3339),
		})
	}
	return out
}

type paymentResponse struct {
	ID        int64  `json:"id"`
	ReceiptID string `json:"receipt_id"`
	StudentID int64  `json:"student_id"`
	Amount    int    `json:"amount"`
	CreatedAt string `json:"created_at"`
}

func toPaymentResponse(payment *model.Payment) paymentResponse {
	return paymentResponse{
		ID:        payment.ID,
		ReceiptID: payment.ReceiptID.String(),
		StudentID: payment.StudentID,
		Amount:    payment.Amount,
		CreatedAt: payment.CreatedAt.Format(time.RFC3339),
	}
}

func toPaymentResponses(payments []*model.Payment) []paymentResponse {
	out := make([]paymentResponse, 0, len(payments))
	for _, payment := range payments {
		out = append(out, toPaymentResponse(payment))
	}
	return out
}

type studentResponse struct {
	ID      int64  `json:"student_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Area    string `json:"area"`
	Balance int    `json:"balance"`
}

func toStudentResponse(student *model.Student) studentResponse {
	resp := studentResponse{
		ID:      student.ID,
		Balance: student.Balance,
	}
	if student.User != nil {
		resp.Name = student.User.Name
		resp.Email = student.User.Email
		resp.Area = student.User.Area
	}
	return resp
}

func toStudentResponses(students []*model.Student) []studentResponse {
	out := make([]studentResponse, 0, len(students))
	for _, student := range students {
		out = append(out, toStudentResponse(student))
	}
	return out
}

type lessonResponse struct {
	ID           int64  `json:"id"`
	TeacherID    int64  `json:"teacher_id"`
	StudentID    int64  `json:"student_id"`
	Date         string `json:"date"`
	Duration     int    `json:"duration"`
	MeetupPlace  string `json:"meetup_place,omitempty"`
	DropoffPlace string `json:"dropoff_place,omitempty"`
}

func toLessonResponse(lesson *model.Lesson) lessonResponse {
	return lessonResponse{
		ID:           lesson.ID,
		TeacherID:    lesson.TeacherID,
		StudentID:    lesson.StudentID,
		Date:         lesson.Date.Format(time.RFC3339),
		Duration:     lesson.Duration,
		MeetupPlace:  lesson.MeetupPlace,
		DropoffPlace: lesson.DropoffPlace,
	}
}
