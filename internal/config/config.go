package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Email    EmailConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig selects the storage backend once at startup:
// a DATABASE_URL means the networked postgres engine, otherwise the
// embedded sqlite file at SQLitePath is used.
type DatabaseConfig struct {
	PostgresDSN  string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

type EmailConfig struct {
	SMTPHost       string
	SMTPPort       string
	SenderEmail    string
	SenderPassword string
}

func (d DatabaseConfig) UsePostgres() bool {
	return d.PostgresDSN != ""
}

// Configured reports whether outbound mail can be attempted at all.
func (e EmailConfig) Configured() bool {
	return e.SenderEmail != "" && e.SenderPassword != ""
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5002"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			PostgresDSN:  getEnv("DATABASE_URL", ""),
			SQLitePath:   getEnv("SQLITE_PATH", "rsvp.db"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
		},
		Email: EmailConfig{
			SMTPHost:       getEnv("SMTP_SERVER", "smtp.gmail.com"),
			SMTPPort:       getEnv("SMTP_PORT", "587"),
			SenderEmail:    getEnv("SENDER_EMAIL", ""),
			SenderPassword: getEnv("SENDER_PASSWORD", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
