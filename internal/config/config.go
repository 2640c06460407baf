package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"study-planner/internal/service"
)

const dateLayout = "2006-01-02"

// Store backends for the catalog.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config keeps runtime settings for the planner and the bot.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	CatalogStore  string
	RedisURL      string
	CatalogFile   string
	LogMode       string

	ExamDate      time.Time
	PlanStartDate time.Time

	StudyHoursPerDay    int
	BreakMinutesPerHour int
	CookingMinutes      int
	DayStartHour        int

	DailyPlanTime string
	SaveInterval  time.Duration
}

// Load reads configuration from environment variables (and an optional .env
// file) with sane defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	def := service.DefaultPlannerConfig()
	cfg := Config{
		TelegramToken: env("TELEGRAM_TOKEN", ""),
		DatabaseURL:   env("DATABASE_URL", "study_planner.db"),
		CatalogStore:  strings.ToLower(env("CATALOG_STORE", StoreSQLite)),
		RedisURL:      env("REDIS_URL", "redis://localhost:6379/0"),
		CatalogFile:   env("CATALOG_FILE", ""),
		LogMode:       env("LOG_MODE", "dev"),

		StudyHoursPerDay:    envInt("STUDY_HOURS_PER_DAY", def.StudyHoursPerDay, 1, 24),
		BreakMinutesPerHour: envInt("BREAK_MINUTES_PER_HOUR", def.BreakMinutesPerStudyHour, 0, 60),
		CookingMinutes:      envInt("COOKING_MINUTES", def.CookingMinutes, 1, 24*60),
		DayStartHour:        envInt("DAY_START_HOUR", def.DayStartHour, 0, 23),

		DailyPlanTime: env("DAILY_PLAN_TIME", "07:30"),
		SaveInterval:  time.Duration(envInt("SAVE_INTERVAL_MINUTES", 30, 0, 24*60)) * time.Minute,
	}

	var err error
	if cfg.ExamDate, err = envDate("EXAM_DATE", time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)); err != nil {
		return cfg, err
	}
	if cfg.PlanStartDate, err = envDate("PLAN_START_DATE", cfg.ExamDate.AddDate(0, -3, 0)); err != nil {
		return cfg, err
	}

	switch cfg.CatalogStore {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return cfg, fmt.Errorf("CATALOG_STORE must be one of sqlite, redis, memory, got %q", cfg.CatalogStore)
	}

	if _, _, err := service.ParseClock(cfg.DailyPlanTime); err != nil {
		return cfg, fmt.Errorf("DAILY_PLAN_TIME: %w", err)
	}

	return cfg, nil
}

// RequireTelegram checks settings needed only by the bot.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	return nil
}

func (c Config) Planner() service.PlannerConfig {
	return service.PlannerConfig{
		StudyHoursPerDay:         c.StudyHoursPerDay,
		BreakMinutesPerStudyHour: c.BreakMinutesPerHour,
		CookingMinutes:           c.CookingMinutes,
		DayStartHour:             c.DayStartHour,
		ReferenceMarks:           service.DefaultReferenceMarks,
	}
}

func (c Config) Projection() service.ProjectionConfig {
	return service.ProjectionConfig{
		ExamDate:         c.ExamDate,
		PlanStartDate:    c.PlanStartDate,
		StudyHoursPerDay: c.StudyHoursPerDay,
	}
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt falls back to def when the value is missing, malformed or out of range.
func envInt(key string, def, lo, hi int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return def
	}
	return v
}

func envDate(key string, def time.Time) (time.Time, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return def, fmt.Errorf("%s must be YYYY-MM-DD: %w", key, err)
	}
	return d, nil
}
