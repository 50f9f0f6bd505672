package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/coBecT/MtsTrueTech/migrations"
)

// Migration is one numbered schema change with up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

var upPattern = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

// EnsureMigrationsTable creates the schema_migrations table if it doesn't exist.
func EnsureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// GetCurrentVersion returns the current migration version and dirty state.
func GetCurrentVersion(ctx context.Context, db *sql.DB) (int, bool, error) {
	var version int
	var dirty int

	err := db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return version, dirty == 1, nil
}

// SetVersion records version as the only row of schema_migrations.
// Version 0 leaves the table empty.
func SetVersion(ctx context.Context, db *sql.DB, version int, dirty bool) error {
	dirtyInt := 0
	if dirty {
		dirtyInt = 1
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}

	if version > 0 {
		_, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, dirtyInt)
		return err
	}
	return nil
}

// LoadMigrations reads all embedded migration files and returns them sorted by version.
func LoadMigrations() ([]Migration, error) {
	return loadFrom(migrations.FS)
}

func loadFrom(fsys fs.FS) ([]Migration, error) {
	var result []Migration

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := upPattern.FindStringSubmatch(filepath.Base(path))
		if matches == nil {
			return nil
		}

		version, _ := strconv.Atoi(matches[1])
		name := matches[2]

		upSQL, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		downPath := strings.TrimSuffix(path, ".up.sql") + ".down.sql"
		downSQL, err := fs.ReadFile(fsys, downPath)
		if err != nil {
			downSQL = nil
		}

		result = append(result, Migration{
			Version: version,
			Name:    name,
			UpSQL:   string(upSQL),
			DownSQL: string(downSQL),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})

	return result, nil
}

// RunMigration executes a single migration (up or down). The version is
// marked dirty while statements run so a failure is visible on next start.
func RunMigration(ctx context.Context, db *sql.DB, m Migration, up bool) error {
	direction := "up"
	sqlContent := m.UpSQL
	if !up {
		direction = "down"
		sqlContent = m.DownSQL
	}

	log.Info().Int("version", m.Version).Str("name", m.Name).Str("direction", direction).Msg("applying migration")

	targetVersion := m.Version
	if !up {
		targetVersion = m.Version - 1
	}
	if err := SetVersion(ctx, db, m.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}

	for _, stmt := range SplitSQL(sqlContent) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %d %s: %w\nSQL: %s", m.Version, direction, err, stmt)
		}
	}

	if err := SetVersion(ctx, db, targetVersion, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}

	return nil
}

// SplitSQL splits a SQL script on semicolons and drops empty statements.
func SplitSQL(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// Step is one migration applied in one direction.
type Step struct {
	Migration Migration
	Up        bool
}

// Plan returns the steps that move the schema from current to target:
// ascending up steps when target is newer, descending down steps when it is
// older. A down step without a down script is an error.
func Plan(all []Migration, current, target int) ([]Step, error) {
	var steps []Step
	if target >= current {
		for _, m := range all {
			if m.Version > current && m.Version <= target {
				steps = append(steps, Step{Migration: m, Up: true})
			}
		}
		return steps, nil
	}
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if m.Version > current || m.Version <= target {
			continue
		}
		if m.DownSQL == "" {
			return nil, fmt.Errorf("no down migration for version %d", m.Version)
		}
		steps = append(steps, Step{Migration: m})
	}
	return steps, nil
}

// Latest is the highest version in all, or 0.
func Latest(all []Migration) int {
	if len(all) == 0 {
		return 0
	}
	return all[len(all)-1].Version
}

// Apply runs steps in order and stops at the first failure.
func Apply(ctx context.Context, db *sql.DB, steps []Step) error {
	for _, st := range steps {
		if err := RunMigration(ctx, db, st.Migration, st.Up); err != nil {
			return err
		}
	}
	return nil
}

// RunAll runs all pending migrations on the provided database.
func RunAll(ctx context.Context, db *sql.DB) error {
	if err := EnsureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, dirty, err := GetCurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	all, err := LoadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	steps, err := Plan(all, currentVersion, Latest(all))
	if err != nil {
		return err
	}
	return Apply(ctx, db, steps)
}
