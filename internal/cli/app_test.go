package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/coBecT/MtsTrueTech/internal/config"
	"github.com/coBecT/MtsTrueTech/internal/ports"
)

func TestAppContextFieldTypes(t *testing.T) {
	// Compile-time verification that AppContext uses port interfaces.
	var a AppContext
	var _ ports.ExperimentRepository = a.Experiments //nolint:staticcheck
	var _ ports.VersionRepository = a.Versions       //nolint:staticcheck
	var _ ports.IdentityRepository = a.Identities    //nolint:staticcheck
	var _ ports.FileStorage = a.Files                //nolint:staticcheck
	var _ ports.MetricsExporter = a.Metrics          //nolint:staticcheck
}

func TestAppContextClose_NilDB(t *testing.T) {
	a := &AppContext{}
	if err := a.Close(context.Background()); err != nil {
		t.Errorf("Close() on nil DB should not error, got: %v", err)
	}
}

func TestNewAppContext_Memory(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Files:   config.FilesConfig{Dir: t.TempDir()},
	}

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		t.Fatalf("NewAppContext: %v", err)
	}
	defer app.Close(ctx)

	if app.DB != nil {
		t.Error("memory driver should not open a database")
	}
	exps, err := app.Experiments.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(exps) != 4 {
		t.Errorf("expected 4 seeded experiments, got %d", len(exps))
	}
}

func TestNewAppContext_Libsql(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := &config.Config{
		Storage:  config.StorageConfig{Driver: config.DriverLibsql},
		Database: config.DatabaseConfig{URL: "file:" + filepath.Join(dir, "lab.db")},
		Files:    config.FilesConfig{Dir: filepath.Join(dir, "files")},
	}

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		t.Fatalf("NewAppContext: %v", err)
	}
	defer app.Close(ctx)

	if app.DB == nil {
		t.Fatal("libsql driver should open a database")
	}
	exps, err := app.Experiments.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(exps) != 0 {
		t.Errorf("expected empty database, got %d experiments", len(exps))
	}
}
