package memory

import (
	"context"
	"sync"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

type IdentityRepository struct {
	mu         sync.RWMutex
	identities map[string]domain.Identity
}

func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{identities: make(map[string]domain.Identity)}
}

func (r *IdentityRepository) Upsert(_ context.Context, i *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *i
	if existing, ok := r.identities[i.ID()]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	r.identities[i.ID()] = stored
	return nil
}

func (r *IdentityRepository) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i, ok := r.identities[id]; ok {
		return &i, nil
	}
	return nil, nil
}
