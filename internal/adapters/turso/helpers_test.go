package turso_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/coBecT/MtsTrueTech/internal/adapters/turso"
	"github.com/coBecT/MtsTrueTech/internal/domain"
	"github.com/coBecT/MtsTrueTech/internal/migrate"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	ctx := context.Background()
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedExperiment(t *testing.T, db *sql.DB, id string) *domain.Experiment {
	t.Helper()

	e := &domain.Experiment{
		ID:           id,
		Title:        "Experiment " + id,
		Goal:         "Goal " + id,
		Hypothesis:   "Hypothesis " + id,
		Timeline:     "2024-01-01 - 2024-02-01",
		Equipment:    "Spectrometer",
		Budget:       "1000",
		Status:       domain.StatusInProgress,
		LastModified: "2024-01-15 10:30",
		Files:        []string{"data.xlsx", "photo.png"},
		CreatedAt:    time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
	if err := turso.NewExperimentRepository(db).Create(context.Background(), e); err != nil {
		t.Fatalf("Failed to seed experiment: %v", err)
	}
	return e
}
