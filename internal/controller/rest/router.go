package rest

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// NewRouter wires the HTTP routes onto a chi mux.
func NewRouter(c *Controller, logger *zap.Logger) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", userIDHeader},
		MaxAge:         300,
	}))
	router.Use(httprate.LimitByIP(100, time.Minute))
	router.Use(logRequests(logger))

	router.Route("/teacher", func(r chi.Router) {
		r.Post("/{teacherID}/available_hours", c.AvailableHours)

		r.Group(func(r chi.Router) {
			r.Use(c.requireTeacher)
			r.Get("/work_days", c.GetWorkDays)
			r.Post("/work_days", c.AddWorkDay)
			r.Delete("/work_days/{id}", c.DeleteWorkDay)
			r.Post("/add_payment", c.AddPayment)
			r.Get("/students", c.Students)
			r.Post("/students", c.AddStudent)
			r.Get("/students/{id}/payments", c.StudentPayments)
			r.Get("/schedule_image", c.ScheduleImage)
		})
	})

	router.Post("/lessons", c.BookLesson)

	return router
}
