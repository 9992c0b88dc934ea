package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ReminderMode controls whether a due task is notified once or on every
// sweep until it completes or leaves the window.
type ReminderMode string

const (
	ReminderOnce   ReminderMode = "once"
	ReminderRepeat ReminderMode = "repeat"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Database. Empty selects the in-memory store.
	DatabaseURL string

	// JWT
	JWTSecret          string
	JWTExpirationHours int

	// Auth codes / refresh tokens
	AuthCodeTTL     time.Duration
	RefreshTokenTTL time.Duration

	// Email
	SendGridAPIKey string
	EmailFrom      string

	// Web push (VAPID)
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string

	// Reminder sweep
	ReminderInterval time.Duration
	ReminderWindow   time.Duration
	ReminderMode     ReminderMode

	// Expired auth code cleanup
	CodeCleanupInterval time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTExpirationHours:  getEnvInt("JWT_EXPIRATION_HOURS", 24),
		AuthCodeTTL:         time.Duration(getEnvInt("AUTH_CODE_TTL_SECONDS", 60)) * time.Second,
		RefreshTokenTTL:     time.Duration(getEnvInt("REFRESH_TOKEN_TTL_HOURS", 7*24)) * time.Hour,
		SendGridAPIKey:      getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:           getEnv("EMAIL_FROM", "no-reply@example.com"),
		VAPIDPublicKey:      getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:     getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:        getEnv("VAPID_SUBJECT", "mailto:hello@mytodospersonal.app"),
		ReminderInterval:    time.Duration(getEnvInt("REMINDER_INTERVAL_SECONDS", 60)) * time.Second,
		ReminderWindow:      time.Duration(getEnvInt("REMINDER_WINDOW_HOURS", 48)) * time.Hour,
		ReminderMode:        ReminderMode(getEnv("REMINDER_MODE", string(ReminderOnce))),
		CodeCleanupInterval: time.Duration(getEnvInt("CODE_CLEANUP_INTERVAL_SECONDS", 3600)) * time.Second,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if cfg.ReminderMode != ReminderOnce && cfg.ReminderMode != ReminderRepeat {
		return nil, fmt.Errorf("REMINDER_MODE must be %q or %q", ReminderOnce, ReminderRepeat)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
