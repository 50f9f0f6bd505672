package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coBecT/MtsTrueTech/internal/adapters/turso"
	"github.com/coBecT/MtsTrueTech/internal/config"
	"github.com/coBecT/MtsTrueTech/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations against the libsql database.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  labtrack migrate --driver libsql --database-url file:labtrack.db      # Run all pending migrations
  labtrack migrate 2 --driver libsql --database-url file:labtrack.db    # Migrate to version 2
  labtrack migrate 0 --driver libsql --database-url file:labtrack.db    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	Args:  cobra.NoArgs,
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if cfg.Storage.Driver != config.DriverLibsql {
		return fmt.Errorf("migrations need the libsql driver (--driver libsql)")
	}

	db, err := turso.NewDB(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, dirty, err := migrate.GetCurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d, manual intervention required", currentVersion)
	}

	all, err := migrate.LoadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	fmt.Fprintf(out, "Current version: %d\n", currentVersion)

	targetVersion := migrate.Latest(all)
	if len(args) > 0 {
		targetVersion, err = strconv.Atoi(args[0])
		if err != nil || targetVersion < 0 {
			return fmt.Errorf("invalid version number: %s", args[0])
		}
	}

	steps, err := migrate.Plan(all, currentVersion, targetVersion)
	if err != nil {
		return err
	}
	if err := migrate.Apply(ctx, db, steps); err != nil {
		return err
	}

	switch {
	case len(args) == 0 && len(steps) == 0:
		fmt.Fprintln(out, "No pending migrations")
	case len(args) == 0:
		fmt.Fprintf(out, "Applied %d migration(s)\n", len(steps))
	case len(steps) == 0:
		fmt.Fprintln(out, "Already at target version")
	default:
		fmt.Fprintf(out, "Migrated to version %d\n", targetVersion)
	}
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if cfg.Storage.Driver != config.DriverLibsql {
		return fmt.Errorf("migrations need the libsql driver (--driver libsql)")
	}

	db, err := turso.NewDB(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	version, dirty, err := migrate.GetCurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	all, err := migrate.LoadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	latest := 0
	if len(all) > 0 {
		latest = all[len(all)-1].Version
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Current version: %d\nLatest version: %d\nDirty: %t\n", version, latest, dirty)
	return nil
}
