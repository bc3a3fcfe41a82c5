package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds every attendance rule knob. UTCOffset is the single
// organizational timezone; all civil-day arithmetic runs in it.
type AttendanceConfig struct {
	UTCOffset             string // e.g. "+05:45"
	GraceMinutes          int
	BreakMinutes          int
	HalfDayMinutes        int
	EarlyWindowMinutes    int
	WeeklyOffDay          time.Weekday
	BackfillTime          string // "HH:MM", organization-local
	RegularizationMaxDays int
}

func Load() (*Config, error) {
	// .env is optional, deployments may pass env directly
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrm"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance rules
	grace, err := strconv.Atoi(getEnv("ATTENDANCE_GRACE_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_GRACE_MINUTES: %w", err)
	}
	breakMins, err := strconv.Atoi(getEnv("ATTENDANCE_BREAK_MINUTES", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_BREAK_MINUTES: %w", err)
	}
	halfDay, err := strconv.Atoi(getEnv("ATTENDANCE_HALF_DAY_MINUTES", "240"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_HALF_DAY_MINUTES: %w", err)
	}
	earlyWindow, err := strconv.Atoi(getEnv("ATTENDANCE_EARLY_WINDOW_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_EARLY_WINDOW_MINUTES: %w", err)
	}
	regMaxDays, err := strconv.Atoi(getEnv("REGULARIZATION_MAX_AGE_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid REGULARIZATION_MAX_AGE_DAYS: %w", err)
	}
	weeklyOff, err := parseWeekday(getEnv("WEEKLY_OFF_DAY", "Saturday"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEEKLY_OFF_DAY: %w", err)
	}

	config.Attendance = AttendanceConfig{
		UTCOffset:             getEnv("ORG_UTC_OFFSET", "+05:45"),
		GraceMinutes:          grace,
		BreakMinutes:          breakMins,
		HalfDayMinutes:        halfDay,
		EarlyWindowMinutes:    earlyWindow,
		WeeklyOffDay:          weeklyOff,
		BackfillTime:          getEnv("ABSENCE_BACKFILL_TIME", "21:00"),
		RegularizationMaxDays: regMaxDays,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.Parse("15:04", c.Attendance.BackfillTime); err != nil {
		return fmt.Errorf("ABSENCE_BACKFILL_TIME must be HH:MM: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s == d.String() {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
