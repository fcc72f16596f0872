package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tutor-service/internal/app"
	"tutor-service/internal/config"
	"tutor-service/internal/controller/rest"
	"tutor-service/internal/notify"
	"tutor-service/internal/repository"
	"tutor-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to reach database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	teacherRepo := repository.NewTeacherRepository(pool)
	workDayRepo := repository.NewWorkDayRepository(pool)
	lessonRepo := repository.NewLessonRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	var notifier service.Notifier
	if cfg.TelegramToken != "" {
		telegramNotifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, logger)
		if err != nil {
			logger.Fatal("failed to create telegram notifier", zap.Error(err))
		}
		notifier = telegramNotifier
	} else {
		logger.Info("no telegram token configured, notifications disabled")
	}

	teacherService := service.NewTeacherService(
		teacherRepo, workDayRepo, lessonRepo, studentRepo, userRepo, paymentRepo,
		notifier, cfg.DefaultLessonMinutes, logger,
	)
	bookingService := service.NewBookingService(
		teacherRepo, studentRepo, lessonRepo,
		notifier, cfg.DefaultLessonMinutes, logger,
	)

	scheduler := app.NewScheduler(teacherService, cfg.DigestCronSpec, logger)
	if notifier != nil {
		if err := scheduler.Start(); err != nil {
			logger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	controller := rest.NewController(teacherService, bookingService, logger)
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: rest.NewRouter(controller, logger),
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
