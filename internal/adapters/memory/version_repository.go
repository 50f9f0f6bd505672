package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

type VersionRepository struct {
	mu       sync.RWMutex
	versions map[string]*domain.ExperimentVersion
}

func NewVersionRepository() *VersionRepository {
	return &VersionRepository{versions: make(map[string]*domain.ExperimentVersion)}
}

func (r *VersionRepository) Create(_ context.Context, v *domain.ExperimentVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.versions[v.ID]; ok {
		return fmt.Errorf("version %s already exists", v.ID)
	}
	r.versions[v.ID] = cloneVersion(v)
	return nil
}

func (r *VersionRepository) GetByID(_ context.Context, id string) (*domain.ExperimentVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if v, ok := r.versions[id]; ok {
		return cloneVersion(v), nil
	}
	return nil, nil
}

func (r *VersionRepository) ListByExperiment(_ context.Context, experimentID string) ([]*domain.ExperimentVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.ExperimentVersion
	for _, v := range r.versions {
		if v.ExperimentID == experimentID {
			c := cloneVersion(v)
			c.Files, c.Results, c.Metadata = nil, nil, nil
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *VersionRepository) NextNumber(_ context.Context, experimentID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max := 0
	for _, v := range r.versions {
		if v.ExperimentID == experimentID && v.Number > max {
			max = v.Number
		}
	}
	return max + 1, nil
}

func (r *VersionRepository) UpdateStatus(_ context.Context, id string, status domain.VersionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.versions[id]
	if !ok {
		return fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
	}
	v.Status = status
	return nil
}

func (r *VersionRepository) AddFile(_ context.Context, f *domain.FileReference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.versions[f.VersionID]
	if !ok {
		return fmt.Errorf("version %s: %w", f.VersionID, domain.ErrNotFound)
	}
	v.Files = append(v.Files, *f)
	return nil
}

func (r *VersionRepository) AddResult(_ context.Context, res *domain.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.versions[res.VersionID]
	if !ok {
		return fmt.Errorf("version %s: %w", res.VersionID, domain.ErrNotFound)
	}
	c := *res
	c.Data = append([]byte(nil), res.Data...)
	v.Results = append(v.Results, c)
	return nil
}

func (r *VersionRepository) SetMetadata(_ context.Context, versionID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.versions[versionID]
	if !ok {
		return fmt.Errorf("version %s: %w", versionID, domain.ErrNotFound)
	}
	return v.SetMetadata(key, value)
}

func cloneVersion(v *domain.ExperimentVersion) *domain.ExperimentVersion {
	c := *v
	c.Parameters = append([]domain.Parameter(nil), v.Parameters...)
	c.Files = append([]domain.FileReference(nil), v.Files...)
	c.Results = append([]domain.Result(nil), v.Results...)
	if v.Metadata != nil {
		c.Metadata = make(map[string]string, len(v.Metadata))
		for k, val := range v.Metadata {
			c.Metadata[k] = val
		}
	}
	if v.ParentID != nil {
		parent := *v.ParentID
		c.ParentID = &parent
	}
	return &c
}
