package turso_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/coBecT/MtsTrueTech/internal/adapters/turso"
	"github.com/coBecT/MtsTrueTech/internal/domain"
)

func TestExperimentRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := turso.NewExperimentRepository(db)
	ctx := context.Background()

	want := seedExperiment(t, db, "exp-1")

	got, err := repo.GetByID(ctx, "exp-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected experiment, got nil")
	}
	if got.Title != want.Title || got.Goal != want.Goal || got.Status != want.Status {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if !reflect.DeepEqual(got.Files, want.Files) {
		t.Errorf("Files = %v, want %v", got.Files, want.Files)
	}
}

func TestExperimentRepository_GetByID_NotFound(t *testing.T) {
	db := testDB(t)
	repo := turso.NewExperimentRepository(db)

	got, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestExperimentRepository_List(t *testing.T) {
	db := testDB(t)
	repo := turso.NewExperimentRepository(db)

	seedExperiment(t, db, "exp-a")
	seedExperiment(t, db, "exp-b")

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 experiments, got %d", len(list))
	}
	for _, e := range list {
		if len(e.Files) != 2 {
			t.Errorf("experiment %s: expected 2 files, got %v", e.ID, e.Files)
		}
	}
}

func TestExperimentRepository_Update(t *testing.T) {
	db := testDB(t)
	repo := turso.NewExperimentRepository(db)
	ctx := context.Background()

	e := seedExperiment(t, db, "exp-u")
	e.Status = domain.StatusCompleted
	e.Files = []string{"report.pdf"}
	if err := repo.Update(ctx, e); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "exp-u")
	if got.Status != domain.StatusCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if !reflect.DeepEqual(got.Files, []string{"report.pdf"}) {
		t.Errorf("Files = %v", got.Files)
	}

	missing := &domain.Experiment{ID: "nope", Status: domain.StatusPaused}
	if err := repo.Update(ctx, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExperimentRepository_DeleteCascadesFiles(t *testing.T) {
	db := testDB(t)
	repo := turso.NewExperimentRepository(db)
	ctx := context.Background()

	seedExperiment(t, db, "exp-d")
	if err := repo.Delete(ctx, "exp-d"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM experiment_files WHERE experiment_id = ?`, "exp-d").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected files to be deleted, %d remain", count)
	}
}
