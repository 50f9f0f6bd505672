package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

type IdentityRepository struct {
	db *sql.DB
}

func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) Upsert(ctx context.Context, i *domain.Identity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (id, provider, external_id, name, email, avatar, created_at, last_login_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			avatar = excluded.avatar,
			last_login_at = excluded.last_login_at`,
		i.ID(), string(i.Provider), i.ExternalID, i.Name, i.Email, i.Avatar,
		formatTime(i.CreatedAt), formatTime(i.LastLoginAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert identity: %w", err)
	}
	return nil
}

func (r *IdentityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	var (
		i                    domain.Identity
		provider             string
		createdAt, lastLogin string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT provider, external_id, name, email, avatar, created_at, last_login_at
		FROM identities WHERE id = ?`, id,
	).Scan(&provider, &i.ExternalID, &i.Name, &i.Email, &i.Avatar, &createdAt, &lastLogin)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	i.Provider = domain.Provider(provider)
	i.CreatedAt = parseTime(createdAt)
	i.LastLoginAt = parseTime(lastLogin)
	return &i, nil
}
