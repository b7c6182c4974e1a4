// Package config loads the application configuration once at startup.
//
// Values come from the process environment; a .env file in the working
// directory is loaded first when present (development convenience).
// Every setting has a default except SESSION_SECRET.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries every configuration value. Each section is its own struct.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Upload   UploadConfig
	Log      LogConfig
	Email    EmailConfig
}

// ServerConfig, HTTP listener settings.
type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

// DatabaseConfig, SQLite settings.
type DatabaseConfig struct {
	Path string // e.g. ./data/brickdepot.db
}

// SessionConfig controls the signed session cookie.
//
// Duration is the absolute lifetime of a fresh session. When a request arrives
// with less than ActiveDuration left, the deadline is pushed out by
// ActiveDuration.
type SessionConfig struct {
	Secret         string
	EncryptionKey  string // optional; 16, 24 or 32 bytes enables cookie encryption
	Duration       time.Duration
	ActiveDuration time.Duration
	Secure         bool
}

// UploadConfig, profile image uploads.
type UploadConfig struct {
	Dir     string
	MaxSize int64 // bytes
}

// LogConfig, zap settings.
type LogConfig struct {
	Level  string
	Format string // json | console
}

// EmailConfig, optional Resend integration. Empty APIKey disables email.
type EmailConfig struct {
	ResendAPIKey string
	FromEmail    string
	AppURL       string
}

// Enabled reports whether all values needed to send email are present.
func (c EmailConfig) Enabled() bool {
	return c.ResendAPIKey != "" && c.FromEmail != "" && c.AppURL != ""
}

// Load builds a Config from the environment.
func Load() (*Config, error) {
	// Missing .env is not an error; production uses real env vars.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 3000)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("DATABASE_PATH", "./data/brickdepot.db")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_ENCRYPTION_KEY", "")
	v.SetDefault("SESSION_DURATION", "24h")
	v.SetDefault("SESSION_ACTIVE_DURATION", "5m")
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("UPLOAD_DIR", "./data/uploads")
	v.SetDefault("UPLOAD_MAX_SIZE", 8<<20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("RESEND_FROM", "")
	v.SetDefault("APP_URL", "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	port := v.GetInt("PORT")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", v.GetString("PORT"))
	}

	secret := v.GetString("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	encKey := v.GetString("SESSION_ENCRYPTION_KEY")
	switch len(encKey) {
	case 0, 16, 24, 32:
	default:
		return nil, fmt.Errorf("invalid SESSION_ENCRYPTION_KEY: must be 16, 24 or 32 bytes")
	}

	duration, err := parseDuration(v, "SESSION_DURATION")
	if err != nil {
		return nil, err
	}
	active, err := parseDuration(v, "SESSION_ACTIVE_DURATION")
	if err != nil {
		return nil, err
	}
	if active > duration {
		return nil, fmt.Errorf("SESSION_ACTIVE_DURATION (%s) must not exceed SESSION_DURATION (%s)", active, duration)
	}

	maxSize := v.GetInt64("UPLOAD_MAX_SIZE")
	if maxSize <= 0 {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_SIZE: %q", v.GetString("UPLOAD_MAX_SIZE"))
	}

	return &Config{
		Server: ServerConfig{
			Host:        v.GetString("HOST"),
			Port:        port,
			CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Path: v.GetString("DATABASE_PATH"),
		},
		Session: SessionConfig{
			Secret:         secret,
			EncryptionKey:  encKey,
			Duration:       duration,
			ActiveDuration: active,
			Secure:         v.GetBool("SESSION_SECURE"),
		},
		Upload: UploadConfig{
			Dir:     v.GetString("UPLOAD_DIR"),
			MaxSize: maxSize,
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Email: EmailConfig{
			ResendAPIKey: v.GetString("RESEND_API_KEY"),
			FromEmail:    v.GetString("RESEND_FROM"),
			AppURL:       v.GetString("APP_URL"),
		},
	}, nil
}

// Addr returns the listen address, e.g. "0.0.0.0:3000".
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
