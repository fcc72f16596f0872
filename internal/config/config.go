package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN                string
	Environment          string
	HTTPAddr             string
	TelegramToken        string
	DefaultLessonMinutes int
	MigrationsPath       string
	DigestCronSpec       string
}

func Load() (*Config, error) {
	// .env is optional, environment variables win either way
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DigestCronSpec: os.Getenv("DIGEST_CRON_SPEC"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
	if cfg.DigestCronSpec == "" {
		// evening digest of tomorrow's lessons
		cfg.DigestCronSpec = "0 18 * * *"
	}

	cfg.DefaultLessonMinutes = 60
	if raw := os.Getenv("DEFAULT_LESSON_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid DEFAULT_LESSON_MINUTES %q", raw)
		}
		cfg.DefaultLessonMinutes = minutes
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}
