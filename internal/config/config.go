// Package config loads labtrack settings from defaults, a YAML file,
// LABTRACK_* environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coBecT/MtsTrueTech/internal/adapters/otel"
)

const (
	DriverMemory = "memory"
	DriverLibsql = "libsql"

	DefaultPort          = 8080
	DefaultLogLevel      = "warn"
	DefaultSessionSecret = "labtrack-insecure-session-secret"
)

type Config struct {
	Port     int            `koanf:"port"`
	Log      string         `koanf:"log"`
	Storage  StorageConfig  `koanf:"storage"`
	Database DatabaseConfig `koanf:"database"`
	Session  SessionConfig  `koanf:"session"`
	Files    FilesConfig    `koanf:"files"`
	OTel     otel.Config    `koanf:"otel"`
}

type StorageConfig struct {
	Driver string `koanf:"driver"`
}

type DatabaseConfig struct {
	URL       string `koanf:"url"`
	AuthToken string `koanf:"auth_token"`
}

type SessionConfig struct {
	Secret string `koanf:"secret"`
}

type FilesConfig struct {
	// Dir is where attachments are stored. Empty means the XDG data dir.
	Dir string `koanf:"dir"`
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := zerolog.ParseLevel(c.Log); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log, err)
	}
	switch strings.ToLower(c.Storage.Driver) {
	case DriverMemory:
	case DriverLibsql:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the %s driver", DriverLibsql)
		}
	default:
		return fmt.Errorf("unknown storage driver %q (valid: %s, %s)", c.Storage.Driver, DriverMemory, DriverLibsql)
	}
	if len(c.Session.Secret) < 16 {
		return fmt.Errorf("session.secret must be at least 16 bytes")
	}
	if c.OTel.Enabled && c.OTel.Endpoint == "" {
		return fmt.Errorf("otel.endpoint is required when otel is enabled")
	}
	return nil
}

// InsecureSecret reports whether the built-in session secret is in use.
func (c *Config) InsecureSecret() bool {
	return c.Session.Secret == DefaultSessionSecret
}
