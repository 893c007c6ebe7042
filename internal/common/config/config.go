package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mailsign/signup-backend/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("JWT_SECRET must be at least 32 bytes")
)

type SessionBackend string

const (
	SessionBackendMemory SessionBackend = "memory"
	SessionBackendRedis  SessionBackend = "redis"
)

type Config struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	SessionSecret  string
	SessionBackend SessionBackend
	RedisURL       string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	RequestTimeout time.Duration
}

func Load() (Config, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return Config{}, err
	}

	sessionSecret, err := mustEnv("SESSION_SECRET")
	if err != nil {
		return Config{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	smtpHost, err := mustEnv("SMTP_HOST")
	if err != nil {
		return Config{}, err
	}

	smtpUser, err := mustEnv("SMTP_USER")
	if err != nil {
		return Config{}, err
	}

	smtpPass, err := mustEnv("SMTP_PASS")
	if err != nil {
		return Config{}, err
	}

	backend := SessionBackend(getEnv("SESSION_BACKEND", string(SessionBackendMemory)))
	if backend != SessionBackendMemory && backend != SessionBackendRedis {
		return Config{}, fmt.Errorf("unknown SESSION_BACKEND: %s", backend)
	}

	cfg := Config{
		HTTPPort:       getEnv("PORT", constants.DefaultHTTPPort),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		SessionSecret:  sessionSecret,
		SessionBackend: backend,
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SMTPHost:       smtpHost,
		SMTPPort:       getIntEnv("SMTP_PORT", constants.DefaultSMTPPort),
		SMTPUser:       smtpUser,
		SMTPPassword:   smtpPass,
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
	}

	return cfg, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
