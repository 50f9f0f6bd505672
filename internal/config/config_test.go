package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.Int("port", DefaultPort, "")
	fs.String("log", DefaultLogLevel, "")
	fs.String("driver", DriverMemory, "")
	fs.String("database-url", "", "")
	fs.String("files-dir", "", "")
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labtrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultLogLevel, cfg.Log)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.InsecureSecret())
	assert.False(t, cfg.OTel.Enabled)
}

func TestLoad_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
port: 9000
log: info
storage:
  driver: libsql
database:
  url: file:from-file.db
session:
  secret: a-very-long-file-secret
`)

	t.Setenv("LABTRACK_LOG", "debug")
	t.Setenv("LABTRACK_DATABASE_URL", "file:from-env.db")
	t.Setenv("LABTRACK_DATABASE_AUTH_TOKEN", "tok")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--database-url", "file:from-flag.db"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port, "file overrides default")
	assert.Equal(t, "debug", cfg.Log, "env overrides file")
	assert.Equal(t, "tok", cfg.Database.AuthToken)
	assert.Equal(t, "file:from-flag.db", cfg.Database.URL, "flag overrides env")
	assert.Equal(t, DriverLibsql, cfg.Storage.Driver)
	assert.False(t, cfg.InsecureSecret())
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LABTRACK_PORT", "7070")

	flags := testFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
}

func TestLoad_PicksUpDefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, defaultFile), []byte("port: 8181\n"), 0644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:    8080,
			Log:     "warn",
			Storage: StorageConfig{Driver: DriverMemory},
			Session: SessionConfig{Secret: DefaultSessionSecret},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = 0 }, "port"},
		{"bad log", func(c *Config) { c.Log = "loud" }, "log level"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "postgres" }, "unknown storage driver"},
		{"libsql without url", func(c *Config) { c.Storage.Driver = DriverLibsql }, "database.url"},
		{"short secret", func(c *Config) { c.Session.Secret = "short" }, "session.secret"},
		{"otel without endpoint", func(c *Config) { c.OTel.Enabled = true }, "otel.endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database.auth_token", envKey("LABTRACK_DATABASE_AUTH_TOKEN"))
	assert.Equal(t, "otel.enabled", envKey("LABTRACK_OTEL_ENABLED"))
	assert.Equal(t, "port", envKey("LABTRACK_PORT"))
	assert.Equal(t, "files.dir", envKey("LABTRACK_FILES_DIR"))
}
