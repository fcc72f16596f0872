package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"tutor-service/internal/model"
)

type contextKey int

const teacherContextKey contextKey = iota

// userIDHeader carries the authenticated user id set by the gateway.
const userIDHeader = "X-User-ID"

func teacherFromContext(ctx context.Context) *model.Teacher {
	teacher, _ := ctx.Value(teacherContextKey).(*model.Teacher)
	return teacher
}

func userIDFromRequest(r *http.Request) (int64, bool) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// requireTeacher resolves the acting teacher from the user id header and puts
// it on the request context. Requests without a teacher profile get 401.
func (c *Controller) requireTeacher(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromRequest(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, "Missing or invalid user id.", nil)
			return
		}

		teacher, err := c.teachers.TeacherByUserID(r.Context(), userID)
		if err != nil {
			writeError(c.logger, w, err)
			return
		}
		if teacher == nil {
			writeJSON(w, http.StatusUnauthorized, "Teacher does not exist.", nil)
			return
		}

		ctx := context.WithValue(r.Context(), teacherContextKey, teacher)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.status),
				zap.Duration("took", time.Since(started)),
			)
		})
	}
}
