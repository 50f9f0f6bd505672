package ports

import (
	"context"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

// ExperimentRepository stores experiment records. GetByID returns (nil, nil)
// when the experiment does not exist.
type ExperimentRepository interface {
	Create(ctx context.Context, experiment *domain.Experiment) error
	GetByID(ctx context.Context, id string) (*domain.Experiment, error)
	List(ctx context.Context) ([]*domain.Experiment, error)
	Update(ctx context.Context, experiment *domain.Experiment) error
	Delete(ctx context.Context, id string) error
}
