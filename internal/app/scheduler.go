package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tutor-service/internal/service"
)

// Scheduler runs the periodic background jobs: currently the daily digest of
// tomorrow's lessons for teachers with a linked chat.
type Scheduler struct {
	cronEngine     *cron.Cron
	teacherService *service.TeacherService
	logger         *zap.Logger
	digestSpec     string
}

func NewScheduler(teacherService *service.TeacherService, digestSpec string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cronEngine:     cron.New(cron.WithLocation(time.Local)),
		teacherService: teacherService,
		logger:         logger,
		digestSpec:     digestSpec,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.digestSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := s.teacherService.SendDailyDigests(ctx); err != nil {
			s.logger.Error("daily digest run failed", zap.Error(err))
			return
		}
		s.logger.Info("daily digest sent")
	})
	if err != nil {
		return fmt.Errorf("add digest cron job: %w", err)
	}

	s.cronEngine.Start()
	s.logger.Info("background scheduler started", zap.String("digest_spec", s.digestSpec))
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("background scheduler stopped")
}
