// Package config provides centralized configuration management for the
// spreadsheet viewer. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Upload  UploadConfig
	Session SessionConfig
	I18n    I18nConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8000)
	Port int `env:"SERVER_PORT" default:"8000"`

	// SecretKey signs the flash and language cookies (default: dev)
	SecretKey string `env:"SECRET_KEY" envAlt:"FLASK_SECRET_KEY" default:"dev"`

	// ReadTimeout is the maximum duration for reading the request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing the response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// UploadConfig holds file upload settings.
type UploadConfig struct {
	// MaxUploadMB is the maximum total upload size in megabytes (default: 16)
	MaxUploadMB int64 `env:"MAX_UPLOAD_MB" default:"16"`

	// Root is the directory that holds per-session upload directories.
	// Defaults to a subdirectory of the system temp dir when unset.
	Root string `env:"UPLOAD_ROOT"`
}

// SessionConfig holds session lifecycle settings.
type SessionConfig struct {
	// TTLHours is how long an untouched session directory survives (default: 24)
	TTLHours int `env:"UPLOAD_TTL_HOURS" default:"24"`

	// CleanupInterval is the pause between expiry sweeps (default: 30m)
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" default:"30m"`
}

// I18nConfig holds translation settings.
type I18nConfig struct {
	// Dir is the directory containing {lang}.json locale files (default: i18n)
	Dir string `env:"I18N_DIR" default:"i18n"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + strconv.Itoa(c.Port)
	}
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *UploadConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

// TTL returns the session time-to-live as a duration.
func (c *SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// defaultUploadRoot is applied when UPLOAD_ROOT is unset.
func defaultUploadRoot() string {
	return filepath.Join(os.TempDir(), "excel_viewer_uploads")
}
