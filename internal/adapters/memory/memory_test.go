package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coBecT/MtsTrueTech/internal/adapters/memory"
	"github.com/coBecT/MtsTrueTech/internal/domain"
	"github.com/coBecT/MtsTrueTech/internal/ports"
)

var (
	_ ports.ExperimentRepository = (*memory.ExperimentRepository)(nil)
	_ ports.VersionRepository    = (*memory.VersionRepository)(nil)
	_ ports.IdentityRepository   = (*memory.IdentityRepository)(nil)
)

func TestSeedExperiments(t *testing.T) {
	seed := memory.SeedExperiments()
	if len(seed) < 2 {
		t.Fatalf("expected at least 2 seeded experiments, got %d", len(seed))
	}
	seen := make(map[string]bool)
	for _, e := range seed {
		if seen[e.ID] {
			t.Errorf("duplicate seeded id %q", e.ID)
		}
		seen[e.ID] = true
		if e.Title == "" || e.Goal == "" {
			t.Errorf("seeded experiment %q lacks title or goal", e.ID)
		}
	}
}

func TestExperimentRepository_ReturnsCopies(t *testing.T) {
	repo := memory.NewExperimentRepository(memory.SeedExperiments()...)
	ctx := context.Background()

	e, err := repo.GetByID(ctx, "1")
	if err != nil || e == nil {
		t.Fatalf("GetByID(1) = %v, %v", e, err)
	}
	e.Title = "changed"
	e.Files[0] = "changed"

	again, _ := repo.GetByID(ctx, "1")
	if again.Title == "changed" || again.Files[0] == "changed" {
		t.Error("mutating a returned experiment changed the stored one")
	}
}

func TestExperimentRepository_CRUD(t *testing.T) {
	repo := memory.NewExperimentRepository()
	ctx := context.Background()

	e := &domain.Experiment{ID: "x", Title: "T", Goal: "G", Status: domain.StatusInProgress}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, e); err == nil {
		t.Error("expected duplicate Create to fail")
	}

	e.Status = domain.StatusCompleted
	if err := repo.Update(ctx, e); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := repo.GetByID(ctx, "x")
	if got.Status != domain.StatusCompleted {
		t.Errorf("Status = %q", got.Status)
	}

	if err := repo.Update(ctx, &domain.Experiment{ID: "missing"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Delete(ctx, "x"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := repo.GetByID(ctx, "x"); got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestVersionRepository(t *testing.T) {
	repo := memory.NewVersionRepository()
	ctx := context.Background()
	now := time.Now()

	if n, _ := repo.NextNumber(ctx, "1"); n != 1 {
		t.Errorf("NextNumber on empty = %d, want 1", n)
	}

	root, _ := domain.NewVersion("v1", "1", "Baseline", "", now)
	root.Number = 1
	_ = root.AddParameter(domain.Parameter{Name: "pH", Value: "7", Type: domain.ParamFloat})
	if err := repo.Create(ctx, root); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	child, _ := root.Fork("v2", "Acidic", "lower pH", now.Add(time.Minute))
	if err := repo.Create(ctx, child); err != nil {
		t.Fatalf("Create child failed: %v", err)
	}

	list, _ := repo.ListByExperiment(ctx, "1")
	if len(list) != 2 || list[0].ID != "v1" || list[1].ID != "v2" {
		t.Fatalf("unexpected list order: %v", list)
	}
	if n, _ := repo.NextNumber(ctx, "1"); n != 3 {
		t.Errorf("NextNumber = %d, want 3", n)
	}

	if err := repo.UpdateStatus(ctx, "v2", domain.VersionActive); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	got, _ := repo.GetByID(ctx, "v2")
	if got.Status != domain.VersionActive {
		t.Errorf("Status = %q", got.Status)
	}
	if err := repo.UpdateStatus(ctx, "nope", domain.VersionActive); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIdentityRepository_Upsert(t *testing.T) {
	repo := memory.NewIdentityRepository()
	ctx := context.Background()
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	login := domain.SocialLogin{Provider: domain.ProviderGoogle, ID: "g-1", Name: "A"}
	_ = repo.Upsert(ctx, login.Identity(first))
	login.Name = "B"
	_ = repo.Upsert(ctx, login.Identity(first.Add(time.Hour)))

	got, _ := repo.GetByID(ctx, "google:g-1")
	if got == nil || got.Name != "B" || !got.CreatedAt.Equal(first) {
		t.Errorf("unexpected identity after upsert: %+v", got)
	}
}

func TestVersionRepository_Details(t *testing.T) {
	repo := memory.NewVersionRepository()
	ctx := context.Background()
	now := time.Now()

	v, _ := domain.NewVersion("v1", "1", "Baseline", "", now)
	v.Number = 1
	if err := repo.Create(ctx, v); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	f, _ := domain.NewFileReference("f1", "v1", domain.SourceCloud, "https://example.org/run.csv", domain.FileTypeDataset, now)
	if err := repo.AddFile(ctx, f); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	res, _ := domain.NewResult("r1", "v1", []byte(`{"yield":0.82}`), "yield", now)
	if err := repo.AddResult(ctx, res); err != nil {
		t.Fatalf("AddResult failed: %v", err)
	}
	if err := repo.SetMetadata(ctx, "v1", "operator", "Ivanova"); err != nil {
		t.Fatalf("SetMetadata failed: %v", err)
	}
	if err := repo.SetMetadata(ctx, "v1", "operator", "Petrov"); err != nil {
		t.Fatalf("SetMetadata overwrite failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "v1")
	if len(got.Files) != 1 || got.Files[0].PathOrURL != "https://example.org/run.csv" {
		t.Errorf("Files = %+v", got.Files)
	}
	if len(got.Results) != 1 || string(got.Results[0].Data) != `{"yield":0.82}` {
		t.Errorf("Results = %+v", got.Results)
	}
	if got.Metadata["operator"] != "Petrov" {
		t.Errorf("Metadata = %v", got.Metadata)
	}

	got.Metadata["operator"] = "changed"
	again, _ := repo.GetByID(ctx, "v1")
	if again.Metadata["operator"] != "Petrov" {
		t.Error("GetByID returned shared metadata")
	}

	listed, _ := repo.ListByExperiment(ctx, "1")
	if len(listed) != 1 || listed[0].Files != nil || listed[0].Metadata != nil {
		t.Errorf("ListByExperiment should not carry details: %+v", listed)
	}

	missing := &domain.Result{VersionID: "nope"}
	if err := repo.AddResult(ctx, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("AddResult on missing version = %v, want ErrNotFound", err)
	}
	if err := repo.SetMetadata(ctx, "nope", "k", "v"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SetMetadata on missing version = %v, want ErrNotFound", err)
	}
}
