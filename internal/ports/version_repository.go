package ports

import (
	"context"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

type VersionRepository interface {
	Create(ctx context.Context, version *domain.ExperimentVersion) error
	// GetByID loads parameters, file references, results and metadata.
	GetByID(ctx context.Context, id string) (*domain.ExperimentVersion, error)
	ListByExperiment(ctx context.Context, experimentID string) ([]*domain.ExperimentVersion, error)
	// NextNumber returns the number the next root version of an experiment gets.
	NextNumber(ctx context.Context, experimentID string) (int, error)
	UpdateStatus(ctx context.Context, id string, status domain.VersionStatus) error

	// AddFile, AddResult and SetMetadata return domain.ErrNotFound when the
	// version does not exist.
	AddFile(ctx context.Context, file *domain.FileReference) error
	AddResult(ctx context.Context, result *domain.Result) error
	SetMetadata(ctx context.Context, versionID, key, value string) error
}
