package rest

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tutor-service/internal/model"
	"tutor-service/internal/repository"
	"tutor-service/internal/service"
)

type stubTeacherStore struct {
	teachers map[int64]*model.Teacher
}

func (s *stubTeacherStore) GetByID(_ context.Context, id int64) (*model.Teacher, error) {
	return s.teachers[id], nil
}

func (s *stubTeacherStore) GetByUserID(_ context.Context, userID int64) (*model.Teacher, error) {
	for _, teacher := range s.teachers {
		if teacher.UserID == userID {
			return teacher, nil
		}
	}
	return nil, nil
}

func (s *stubTeacherStore) GetNotifiable(_ context.Context) ([]*model.Teacher, error) {
	return nil, nil
}

type stubWorkDayStore struct {
	days   []*model.WorkDay
	nextID int64
}

func (s *stubWorkDayStore) Create(_ context.Context, day *model.WorkDay) error {
	s.nextID++
	day.ID = s.nextID
	copied := *day
	s.days = append(s.days, &copied)
	return nil
}

func (s *stubWorkDayStore) GetByTeacherID(_ context.Context, teacherID int64) ([]*model.WorkDay, error) {
	var out []*model.WorkDay
	for _, day := range s.days {
		if day.TeacherID == teacherID {
			out = append(out, day)
		}
	}
	return out, nil
}

func (s *stubWorkDayStore) GetByDate(_ context.Context, teacherID int64, date time.Time) ([]*model.WorkDay, error) {
	var out []*model.WorkDay
	for _, day := range s.days {
		if day.TeacherID == teacherID && day.OnDate != nil &&
			day.OnDate.Year() == date.Year() && day.OnDate.YearDay() == date.YearDay() {
			out = append(out, day)
		}
	}
	return out, nil
}

func (s *stubWorkDayStore) GetByWeekday(_ context.Context, teacherID int64, weekday time.Weekday) ([]*model.WorkDay, error) {
	var out []*model.WorkDay
	for _, day := range s.days {
		if day.TeacherID == teacherID && day.OnDate == nil && day.Day == weekday {
			out = append(out, day)
		}
	}
	return out, nil
}

func (s *stubWorkDayStore) Delete(_ context.Context, teacherID, id int64) (int64, error) {
	for i, day := range s.days {
		if day.TeacherID == teacherID && day.ID == id {
			s.days = append(s.days[:i], s.days[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type stubLessonStore struct {
	lessons []*model.Lesson
	nextID  int64
}

func (s *stubLessonStore) Create(_ context.Context, lesson *model.Lesson) error {
	for _, existing := range s.lessons {
		if existing.TeacherID == lesson.TeacherID && existing.Interval().Overlaps(lesson.Interval()) {
			return repository.ErrLessonOverlap
		}
	}
	s.nextID++
	lesson.ID = s.nextID
	copied := *lesson
	s.lessons = append(s.lessons, &copied)
	return nil
}

func (s *stubLessonStore) GetBetween(_ context.Context, teacherID int64, from, to time.Time) ([]*model.Lesson, error) {
	var out []*model.Lesson
	for _, lesson := range s.lessons {
		if lesson.TeacherID == teacherID && !lesson.Date.Before(from) && !lesson.Date.After(to) {
			out = append(out, lesson)
		}
	}
	return out, nil
}

type stubStudentStore struct {
	students map[int64]*model.Student
	nextID   int64
}

func (s *stubStudentStore) Create(_ context.Context, student *model.Student) error {
	s.nextID++
	student.ID = s.nextID + 100
	copied := *student
	s.students[student.ID] = &copied
	return nil
}

func (s *stubStudentStore) GetByID(_ context.Context, teacherID, id int64) (*model.Student, error) {
	student, ok := s.students[id]
	if !ok || student.TeacherID != teacherID {
		return nil, nil
	}
	return student, nil
}

func (s *stubStudentStore) List(_ context.Context, teacherID int64, _ repository.ListQuery) ([]*model.Student, error) {
	var out []*model.Student
	for _, student := range s.students {
		if student.TeacherID == teacherID {
			out = append(out, student)
		}
	}
	return out, nil
}

type stubUserStore struct {
	nextID int64
}

func (s *stubUserStore) Create(_ context.Context, user *model.User) error {
	s.nextID++
	user.ID = s.nextID + 200
	return nil
}

func (s *stubUserStore) GetByID(_ context.Context, _ int64) (*model.User, error) {
	return nil, nil
}

type stubPaymentStore struct {
	payments []*model.Payment
}

func (s *stubPaymentStore) Create(_ context.Context, payment *model.Payment) error {
	payment.ID = int64(len(s.payments) + 1)
	s.payments = append(s.payments, payment)
	return nil
}

func (s *stubPaymentStore) GetByStudentID(_ context.Context, teacherID, studentID int64) ([]*model.Payment, error) {
	var out []*model.Payment
	for _, p := range s.payments {
		if p.TeacherID == teacherID && p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubNotifier struct {
	sent []string
}

func (s *stubNotifier) Send(_ context.Context, _ int64, text string) error {
	s.sent = append(s.sent, text)
	return nil
}

type fixture struct {
	router   http.Handler
	workDays *stubWorkDayStore
	lessons  *stubLessonStore
	payments *stubPaymentStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	teachers := &stubTeacherStore{teachers: map[int64]*model.Teacher{
		1: {ID: 1, UserID: 10, Price: 100, LessonDuration: 40},
	}}
	workDays := &stubWorkDayStore{}
	lessons := &stubLessonStore{}
	students := &stubStudentStore{students: map[int64]*model.Student{
		5: {ID: 5, TeacherID: 1, UserID: 50, User: &model.User{ID: 50, Name: "alice"}},
	}}
	payments := &stubPaymentStore{}
	notifier := &stubNotifier{}
	logger := zap.NewNop()

	teacherSvc := service.NewTeacherService(teachers, workDays, lessons, students, &stubUserStore{}, payments, notifier, 60, logger)
	bookingSvc := service.NewBookingService(teachers, students, lessons, notifier, 60, logger)
	controller := NewController(teacherSvc, bookingSvc, logger)

	return &fixture{
		router:   NewRouter(controller, logger),
		workDays: workDays,
		lessons:  lessons,
		payments: payments,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}, asUser string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if asUser != "" {
		req.Header.Set(userIDHeader, asUser)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (string, json.RawMessage) {
	t.Helper()

	var resp struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Message, resp.Data
}

func TestAddWorkDay(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/teacher/work_days", map[string]interface{}{
		"day": "tuesday", "from_hour": 13, "to_hour": 17,
	}, "10")

	require.Equal(t, http.StatusCreated, rec.Code)
	message, _ := decodeEnvelope(t, rec)
	assert.Contains(t, message, "Day created")
	assert.Len(t, f.workDays.days, 1)
}

func TestAddWorkDayEndBeforeStart(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/teacher/work_days", map[string]interface{}{
		"day": "tuesday", "from_hour": 17, "to_hour": 13,
	}, "10")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	message, _ := decodeEnvelope(t, rec)
	assert.Contains(t, message, "difference")
	assert.Empty(t, f.workDays.days)
}

func TestAddWorkDayUnknownDay(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/teacher/work_days", map[string]interface{}{
		"day": "someday", "from_hour": 13, "to_hour": 17,
	}, "10")

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkDaysRequireTeacher(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/teacher/work_days", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// user 99 has no teacher profile
	rec = f.do(t, http.MethodGet, "/teacher/work_days", nil, "99")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetWorkDaysOnDateFilter(t *testing.T) {
	f := newFixture(t)

	onDate := time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC)
	f.workDays.Create(context.Background(), &model.WorkDay{
		TeacherID: 1, Day: onDate.Weekday(), FromHour: 9, ToHour: 12, OnDate: &onDate,
	})
	f.workDays.Create(context.Background(), &model.WorkDay{
		TeacherID: 1, Day: time.Monday, FromHour: 13, ToHour: 17,
	})

	rec := f.do(t, http.MethodGet, "/teacher/work_days?on_date=eq:2030-01-10", nil, "10")

	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decodeEnvelope(t, rec)
	var days []workDayResponse
	require.NoError(t, json.Unmarshal(data, &days))
	require.Len(t, days, 1)
	assert.Equal(t, "2030-01-10", days[0].OnDate)
}

func TestDeleteWorkDay(t *testing.T) {
	f := newFixture(t)
	f.workDays.Create(context.Background(), &model.WorkDay{
		TeacherID: 1, Day: time.Monday, FromHour: 13, ToHour: 17,
	})

	rec := f.do(t, http.MethodDelete, "/teacher/work_days/1", nil, "10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.workDays.days)

	rec = f.do(t, http.MethodDelete, "/teacher/work_days/1", nil, "10")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	message, _ := decodeEnvelope(t, rec)
	assert.Contains(t, message, "not exist")
}

func TestAvailableHours(t *testing.T) {
	f := newFixture(t)

	onDate := time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC)
	f.workDays.Create(context.Background(), &model.WorkDay{
		TeacherID: 1, Day: onDate.Weekday(), FromHour: 13, ToHour: 17, OnDate: &onDate,
	})

	rec := f.do(t, http.MethodPost, "/teacher/1/available_hours", map[string]interface{}{
		"date": "2030-01-10", "duration": "100",
	}, "")

	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decodeEnvelope(t, rec)
	var pairs [][2]string
	require.NoError(t, json.Unmarshal(data, &pairs))
	require.Len(t, pairs, 2)
	assert.Contains(t, pairs[0][0], "13:00")
	assert.Contains(t, pairs[1][0], "14:40")
}

func TestAvailableHoursNumericDuration(t *testing.T) {
	f := newFixture(t)

	onDate := time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC)
	f.workDays.Create(context.Background(), &model.WorkDay{
		TeacherID: 1, Day: onDate.Weekday(), FromHour: 13, ToHour: 17, OnDate: &onDate,
	})

	rec := f.do(t, http.MethodPost, "/teacher/1/available_hours", map[string]interface{}{
		"date": "2030-01-10", "duration": 40,
	}, "")

	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decodeEnvelope(t, rec)
	var pairs [][2]string
	require.NoError(t, json.Unmarshal(data, &pairs))
	assert.Len(t, pairs, 6)
}

func TestAddPayment(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/teacher/add_payment", map[string]interface{}{
		"student_id": 5, "amount": 4000,
	}, "10")

	require.Equal(t, http.StatusCreated, rec.Code)
	message, _ := decodeEnvelope(t, rec)
	assert.Contains(t, message, "Payment added")
	require.Len(t, f.payments.payments, 1)
	assert.Equal(t, 4000, f.payments.payments[0].Amount)
}

func TestAddPaymentMissingAmount(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/teacher/add_payment", map[string]interface{}{
		"student_id": 5,
	}, "10")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	message, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "Amount must be given.", message)
}

func TestAddPaymentUnknownStudent(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/teacher/add_payment", map[string]interface{}{
		"student_id": 77, "amount": 4000,
	}, "10")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	message, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "Student does not exist.", message)
}

func TestStudentPayments(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/teacher/add_payment", map[string]interface{}{
		"student_id": 5, "amount": 4000,
	}, "10")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/teacher/students/5/payments", nil, "10")
	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decodeEnvelope(t, rec)
	var payments []paymentResponse
	require.NoError(t, json.Unmarshal(data, &payments))
	require.Len(t, payments, 1)
	assert.Equal(t, 4000, payments[0].Amount)
	assert.NotEmpty(t, payments[0].ReceiptID)

	rec = f.do(t, http.MethodGet, "/teacher/students/77/payments", nil, "10")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	message, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "Student does not exist.", message)
}

func TestStudents(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/teacher/students?name=ali&order_by=balance+desc&limit=10", nil, "10")

	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decodeEnvelope(t, rec)
	var students []studentResponse
	require.NoError(t, json.Unmarshal(data, &students))
	require.Len(t, students, 1)
	assert.Equal(t, "alice", students[0].Name)
}

func TestAddStudent(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/teacher/students", map[string]interface{}{
		"name": "bob", "email": "bob@example.com", "area": "south",
	}, "10")

	require.Equal(t, http.StatusCreated, rec.Code)
	message, data := decodeEnvelope(t, rec)
	assert.Contains(t, message, "Student created")
	var student studentResponse
	require.NoError(t, json.Unmarshal(data, &student))
	assert.NotZero(t, student.ID)
	assert.Equal(t, "bob", student.Name)
}

func TestAddStudentInvalidEmail(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/teacher/students", map[string]interface{}{
		"name": "bob", "email": "not-an-email",
	}, "10")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookLesson(t *testing.T) {
	f := newFixture(t)

	date := time.Date(2030, 1, 10, 13, 30, 0, 0, time.UTC)
	rec := f.do(t, http.MethodPost, "/lessons", map[string]interface{}{
		"teacher_id": 1, "student_id": 5, "date": date.Format(time.RFC3339),
	}, "50")

	require.Equal(t, http.StatusCreated, rec.Code)
	_, data := decodeEnvelope(t, rec)
	var lesson lessonResponse
	require.NoError(t, json.Unmarshal(data, &lesson))
	assert.Equal(t, 40, lesson.Duration)
	require.Len(t, f.lessons.lessons, 1)
	assert.Equal(t, int64(50), f.lessons.lessons[0].CreatorID)
}

func TestBookLessonOverlap(t *testing.T) {
	f := newFixture(t)

	date := time.Date(2030, 1, 10, 13, 30, 0, 0, time.UTC)
	body := map[string]interface{}{
		"teacher_id": 1, "student_id": 5, "date": date.Format(time.RFC3339), "duration": 40,
	}

	rec := f.do(t, http.MethodPost, "/lessons", body, "50")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/lessons", body, "50")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	message, _ := decodeEnvelope(t, rec)
	assert.Contains(t, message, "taken")
}

func TestScheduleImage(t *testing.T) {
	f := newFixture(t)
	f.workDays.Create(context.Background(), &model.WorkDay{
		TeacherID: 1, Day: time.Tuesday, FromHour: 13, ToHour: 17,
	})

	rec := f.do(t, http.MethodGet, "/teacher/schedule_image?date=2030-01-10", nil, "10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	// PNG signature
	require.True(t, rec.Body.Len() > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes()[:4])
}

func TestBookLessonWithoutUser(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/lessons", map[string]interface{}{
		"teacher_id": 1, "student_id": 5, "date": time.Now().Format(time.RFC3339),
	}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
