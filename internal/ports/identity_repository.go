package ports

import (
	"context"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

type IdentityRepository interface {
	// Upsert stores the identity, keeping CreatedAt of an existing record.
	Upsert(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
}
