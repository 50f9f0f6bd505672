package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	envPrefix   = "LABTRACK_"
	defaultFile = "labtrack.yaml"
)

// sections are the nested config groups; LABTRACK_<SECTION>_<KEY> maps to
// section.key.
var sections = []string{"storage", "database", "session", "files", "otel"}

// flagKeys maps flag names that differ from their config keys.
var flagKeys = map[string]string{
	"driver":       "storage.driver",
	"database-url": "database.url",
	"files-dir":    "files.dir",
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"port":           DefaultPort,
		"log":            DefaultLogLevel,
		"storage.driver": DriverMemory,
		"session.secret": DefaultSessionSecret,
		"otel.enabled":   false,
		"otel.insecure":  false,
	}
}

// Load builds the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Only flags the user actually set take part.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Storage.Driver = strings.ToLower(cfg.Storage.Driver)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns the explicit path, or labtrack.yaml when it exists
// in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(defaultFile); err == nil {
		return defaultFile
	}
	return ""
}

// envKey transforms LABTRACK_DATABASE_AUTH_TOKEN into database.auth_token.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}
