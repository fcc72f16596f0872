package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"tutor-service/internal/model"
	"tutor-service/internal/repository"
)

type fakeTeacherStore struct {
	teachers map[int64]*model.Teacher
}

func (f *fakeTeacherStore) GetByID(_ context.Context, id int64) (*model.Teacher, error) {
	return f.teachers[id], nil
}

func (f *fakeTeacherStore) GetByUserID(_ context.Context, userID int64) (*model.Teacher, error) {
	for _, t := range f.teachers {
		if t.UserID == userID {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTeacherStore) GetNotifiable(_ context.Context) ([]*model.Teacher, error) {
	var out []*model.Teacher
	for _, t := range f.teachers {
		if t.TelegramChatID != nil {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeWorkDayStore struct {
	seq  int64
	days []*model.WorkDay
}

func (f *fakeWorkDayStore) Create(_ context.Context, day *model.WorkDay) error {
	f.seq++
	day.ID = f.seq
	day.CreatedAt = time.Now()
	stored := *day
	f.days = append(f.days, &stored)
	return nil
}

func (f *fakeWorkDayStore) GetByTeacherID(_ context.Context, teacherID int64) ([]*model.WorkDay, error) {
	var out []*model.WorkDay
	for _, d := range f.days {
		if d.TeacherID == teacherID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeWorkDayStore) GetByDate(_ context.Context, teacherID int64, date time.Time) ([]*model.WorkDay, error) {
	var out []*model.WorkDay
	for _, d := range f.days {
		if d.TeacherID == teacherID && d.OnDate != nil && sameDate(*d.OnDate, date) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeWorkDayStore) GetByWeekday(_ context.Context, teacherID int64, weekday time.Weekday) ([]*model.WorkDay, error) {
	var out []*model.WorkDay
	for _, d := range f.days {
		if d.TeacherID == teacherID && d.OnDate == nil && d.Day == weekday {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeWorkDayStore) Delete(_ context.Context, teacherID, id int64) (int64, error) {
	for i, d := range f.days {
		if d.ID == id && d.TeacherID == teacherID {
			f.days = append(f.days[:i], f.days[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type fakeLessonStore struct {
	seq     int64
	lessons []*model.Lesson
}

func (f *fakeLessonStore) Create(_ context.Context, lesson *model.Lesson) error {
	// mimic the exclusion constraint on the occupied time range
	for _, existing := range f.lessons {
		if existing.TeacherID == lesson.TeacherID && existing.Interval().Overlaps(lesson.Interval()) {
			return repository.ErrLessonOverlap
		}
	}
	f.seq++
	lesson.ID = f.seq
	lesson.CreatedAt = time.Now()
	stored := *lesson
	f.lessons = append(f.lessons, &stored)
	return nil
}

func (f *fakeLessonStore) GetBetween(_ context.Context, teacherID int64, from, to time.Time) ([]*model.Lesson, error) {
	var out []*model.Lesson
	for _, l := range f.lessons {
		if l.TeacherID == teacherID && !l.Date.Before(from) && !l.Date.After(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeStudentStore struct {
	seq      int64
	students []*model.Student
}

func (f *fakeStudentStore) Create(_ context.Context, student *model.Student) error {
	f.seq++
	student.ID = f.seq
	copied := *student
	f.students = append(f.students, &copied)
	return nil
}

func (f *fakeStudentStore) GetByID(_ context.Context, teacherID, id int64) (*model.Student, error) {
	for _, s := range f.students {
		if s.ID == id && s.TeacherID == teacherID {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentStore) List(_ context.Context, teacherID int64, q repository.ListQuery) ([]*model.Student, error) {
	var out []*model.Student
	for _, s := range f.students {
		if s.TeacherID != teacherID {
			continue
		}
		if q.NameFilter != nil && !matchName(s, *q.NameFilter) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		switch q.OrderBy {
		case "balance":
			less = out[i].Balance < out[j].Balance
		case "name":
			less = out[i].User.Name < out[j].User.Name
		default:
			less = out[i].ID < out[j].ID
		}
		if q.OrderDesc {
			return !less
		}
		return less
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matchName(s *model.Student, f repository.Filter) bool {
	name := ""
	if s.User != nil {
		name = s.User.Name
	}
	switch f.Op {
	case repository.FilterOpEq:
		return name == f.Value
	case repository.FilterOpLe:
		return name <= f.Value
	case repository.FilterOpGe:
		return name >= f.Value
	default:
		return strings.Contains(strings.ToLower(name), strings.ToLower(f.Value))
	}
}

type fakeUserStore struct {
	seq   int64
	users []*model.User
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	f.seq++
	user.ID = f.seq
	copied := *user
	f.users = append(f.users, &copied)
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type fakePaymentStore struct {
	seq      int64
	payments []*model.Payment
}

func (f *fakePaymentStore) Create(_ context.Context, payment *model.Payment) error {
	f.seq++
	payment.ID = f.seq
	payment.CreatedAt = time.Now()
	stored := *payment
	f.payments = append(f.payments, &stored)
	return nil
}

func (f *fakePaymentStore) GetByStudentID(_ context.Context, teacherID, studentID int64) ([]*model.Payment, error) {
	var out []*model.Payment
	for i := len(f.payments) - 1; i >= 0; i-- {
		p := f.payments[i]
		if p.TeacherID == teacherID && p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Send(_ context.Context, _ int64, text string) error {
	f.sent = append(f.sent, text)
	return nil
}
