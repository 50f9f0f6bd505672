package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

// ExperimentRepository keeps experiments in insertion order.
type ExperimentRepository struct {
	mu          sync.RWMutex
	experiments []*domain.Experiment
}

func NewExperimentRepository(seed ...*domain.Experiment) *ExperimentRepository {
	r := &ExperimentRepository{}
	for _, e := range seed {
		r.experiments = append(r.experiments, cloneExperiment(e))
	}
	return r
}

func (r *ExperimentRepository) Create(_ context.Context, e *domain.Experiment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(e.ID) >= 0 {
		return fmt.Errorf("experiment %s already exists", e.ID)
	}
	r.experiments = append(r.experiments, cloneExperiment(e))
	return nil
}

func (r *ExperimentRepository) GetByID(_ context.Context, id string) (*domain.Experiment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return cloneExperiment(r.experiments[i]), nil
	}
	return nil, nil
}

func (r *ExperimentRepository) List(_ context.Context) ([]*domain.Experiment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Experiment, len(r.experiments))
	for i, e := range r.experiments {
		out[i] = cloneExperiment(e)
	}
	return out, nil
}

func (r *ExperimentRepository) Update(_ context.Context, e *domain.Experiment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(e.ID)
	if i < 0 {
		return fmt.Errorf("experiment %s: %w", e.ID, domain.ErrNotFound)
	}
	updated := cloneExperiment(e)
	updated.CreatedAt = r.experiments[i].CreatedAt
	r.experiments[i] = updated
	return nil
}

func (r *ExperimentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(id); i >= 0 {
		r.experiments = append(r.experiments[:i], r.experiments[i+1:]...)
	}
	return nil
}

func (r *ExperimentRepository) indexOf(id string) int {
	for i, e := range r.experiments {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func cloneExperiment(e *domain.Experiment) *domain.Experiment {
	c := *e
	c.Files = append([]string(nil), e.Files...)
	return &c
}
