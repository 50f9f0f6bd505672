package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coBecT/MtsTrueTech/internal/adapters/memory"
	"github.com/coBecT/MtsTrueTech/internal/adapters/otel"
	"github.com/coBecT/MtsTrueTech/internal/adapters/storage"
	"github.com/coBecT/MtsTrueTech/internal/adapters/turso"
	"github.com/coBecT/MtsTrueTech/internal/config"
	"github.com/coBecT/MtsTrueTech/internal/migrate"
	"github.com/coBecT/MtsTrueTech/internal/ports"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config      *config.Config
	DB          *sql.DB
	Experiments ports.ExperimentRepository
	Versions    ports.VersionRepository
	Identities  ports.IdentityRepository
	Files       ports.FileStorage
	Metrics     ports.MetricsExporter
}

// NewAppContext wires the repositories selected by cfg. The libsql driver
// is migrated to the latest schema before use.
func NewAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	files, err := storage.NewFileStorage(cfg.Files.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	app := &AppContext{Config: cfg, Files: files}

	switch cfg.Storage.Driver {
	case config.DriverLibsql:
		db, err := turso.NewDB(cfg.Database.URL, cfg.Database.AuthToken)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := migrate.RunAll(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		repos := turso.NewRepositories(db)
		app.DB = db
		app.Experiments = repos.Experiments
		app.Versions = repos.Versions
		app.Identities = repos.Identities
	default:
		repos := memory.NewRepositories()
		app.Experiments = repos.Experiments
		app.Versions = repos.Versions
		app.Identities = repos.Identities
	}

	app.Metrics = otel.New(ctx, cfg.OTel)
	return app, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close(ctx context.Context) error {
	if a.Metrics != nil {
		_ = a.Metrics.Close(ctx)
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
