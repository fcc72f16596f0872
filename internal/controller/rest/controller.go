package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"tutor-service/internal/render"
	"tutor-service/internal/repository"
	"tutor-service/internal/schedule"
	"tutor-service/internal/service"
)

// Controller holds the HTTP handlers and their dependencies.
type Controller struct {
	teachers *service.TeacherService
	bookings *service.BookingService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewController(teachers *service.TeacherService, bookings *service.BookingService, logger *zap.Logger) *Controller {
	return &Controller{
		teachers: teachers,
		bookings: bookings,
		validate: validator.New(),
		logger:   logger,
	}
}

func (c *Controller) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &service.ValidationError{Message: "Invalid request body."}
	}
	if err := c.validate.Struct(dst); err != nil {
		return &service.ValidationError{Message: err.Error()}
	}
	return nil
}

func (c *Controller) GetWorkDays(w http.ResponseWriter, r *http.Request) {
	teacher := teacherFromContext(r.Context())

	var onDate *time.Time
	if raw := r.URL.Query().Get("on_date"); raw != "" {
		filter := repository.ParseFilter(raw)
		parsed, err := time.Parse(dateLayout, filter.Value)
		if err != nil {
			writeError(c.logger, w, &service.ValidationError{Message: "Invalid on_date filter."})
			return
		}
		onDate = &parsed
	}

	days, err := c.teachers.WorkDays(r.Context(), teacher.ID, onDate)
	if err != nil {
		writeError(c.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Work days fetched.", toWorkDayResponses(days))
}

func (c *Controller) AddWorkDay(w http.ResponseWriter, r *http.Request) {
	teacher := teacherFromContext(r.Context())

	var req addWorkDayRequest
	if err := c.decode(r, &req); err != nil {
		writeError(c.logger, w, err)
		return
	}
	workDay, err := req.toModel()
	if err != nil {
		writeError(c.logger, w, &service.ValidationError{Message: err.Error()})
		return
	}

	created, err := c.teachers.AddWorkDay(r.Context(), teacher.ID, workDay)
	if err != nil {
		writeError(c.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Day created successfully.", toWorkDayResponse(created))
}

func (c *Controller) DeleteWorkDay(w http.ResponseWriter, r *http.Request) {
	teacher := teacherFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(c.logger, w, &service.ValidationError{Message: "Invalid work day id."})
		return
	}

	if err := c.teachers.DeleteWorkDay(r.Context(), teacher.ID, id); err != nil {
		writeError(c.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Day deleted.", nil)
}

func (c *Controller) AvailableHours(w http.ResponseWriter, r *http.Request) {
	teacherID, err := strconv.ParseInt(chi.URLParam(r, "teacherID"), 10, 64)
	if err != nil {
		writeError(c.logger, w, &service.ValidationError{Message: "Invalid teacher id."})
		return
	}

	var req availableHoursRequest
	if err := c.decode(r, &req); err != nil {
		writeError(c.logger, w, err)
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(c.logger, w, &service.ValidationError{Message: "Invalid date."})
		return
	}

	// duration may arrive as a number or a numeric string
	var duration int
	if req.Duration != "" {
		parsed, err := req.Duration.Int64()
		if err != nil {
			writeError(c.logger, w, &service.ValidationError{Message: "Invalid duration."})
			return
		}
		duration = int(parsed)
	}

	slots, err := c.teachers.AvailableHours(r.Context(), teacherID, date, duration)
	if err != nil {
		writeError(c.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Available hours fetched.", toSlotPairs(slots))
}

func (c *Controller) AddPayment(w http.ResponseWriter, r *http.Request) {
	teacher := teacherFromContext(r.Context())

	var req addPaymentRequest
	if err := c.decode(r, &req); err != nil {
		writeError(c.logger, w, err)
		return
	}

	payment, err := c.teachers.AddPayment(r.Context(), teacher.ID, req.StudentID, req.Amount)
	if err != nil {
		writeError(c.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Payment added successfully.", toPaymentResponse(payment))
}

func (c *Controller) AddStudent(w http.ResponseWriter, r *http.Request) {
	teacher := teacherFromContext(r.Context())

	var req addStudentRequest
	if err := c.decode(r, &req); err != nil {
		writeError(c.logger, w, err)
		return
	}

	student, err := c.teachers.AddStudent(r.Context(), teacher.ID, teacher.UserID, service.AddStudentInput{
		Name:  req.Name,
		Email: req.Email,
		Area:  req.Area,
	})
	if err != nil {
		writeError(c.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Student created successfully.", toStudentResponse(student))
}

func (c *Controller) Students(w http.ResponseWriter, r *http.Request) {
	teacher := teacherFromContext(r.Context())
	query := r.URL.Query()

	var listQuery repository.ListQuery
	if raw := query.Get("name"); raw != "" {
		filter := repository.ParseFilter(raw)
		listQuery.NameFilter = &filter
	}
	if raw := query.Get("order_by"); raw != "" {
		listQuery.ParseOrderBy(raw)
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(c.logger, w, &service.ValidationError{Message: "Invalid limit."})
			return
		}
		listQuery.Limit = limit
	}

	students, err := c.teachers.Students(r.Context(), teacher.ID, listQuery)
	if err != nil {
		writeError(c.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Students fetched.", toStudentResponses(students))
}

func (c *Controller) StudentPayments(w http.ResponseWriter, r *http.Request) {
	teacher := teacherFromContext(r.Context())

	studentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(c.logger, w, &service.ValidationError{Message: "Invalid student id."})
		return
	}

	payments, err := c.teachers.StudentPayments(r.Context(), teacher.ID, studentID)
	if err != nil {
		writeError(c.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Payments fetched.", toPaymentResponses(payments))
}

func (c *Controller) ScheduleImage(w http.ResponseWriter, r *http.Request) {
	teacher := teacherFromContext(r.Context())

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(c.logger, w, &service.ValidationError{Message: "Invalid date."})
			return
		}
		date = parsed
	}

	work, lessons, err := c.teachers.WeekSchedule(r.Context(), teacher.ID, date)
	if err != nil {
		writeError(c.logger, w, err)
		return
	}

	png, err := render.Week(schedule.StartOfWeek(date), work, lessons)
	if err != nil {
		writeError(c.logger, w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (c *Controller) BookLesson(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := userIDFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, "Missing or invalid user id.", nil)
		return
	}

	var req bookLessonRequest
	if err := c.decode(r, &req); err != nil {
		writeError(c.logger, w, err)
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		writeError(c.logger, w, &service.ValidationError{Message: "Invalid date."})
		return
	}

	lesson, err := c.bookings.BookLesson(r.Context(), service.BookLessonInput{
		TeacherID:    req.TeacherID,
		StudentID:    req.StudentID,
		CreatorID:    creatorID,
		Date:         date,
		Duration:     req.Duration,
		MeetupPlace:  req.MeetupPlace,
		DropoffPlace: req.DropoffPlace,
	})
	if err != nil {
		writeError(c.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "Lesson booked successfully.", toLessonResponse(lesson))
}
