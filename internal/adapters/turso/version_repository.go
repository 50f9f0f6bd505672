package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coBecT/MtsTrueTech/internal/domain"
	"github.com/coBecT/MtsTrueTech/internal/util"
)

type VersionRepository struct {
	db *sql.DB
}

func NewVersionRepository(db *sql.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

const versionColumns = `id, experiment_id, version_number, version_name, description, status, parent_version_id, change_log, created_at`

func (r *VersionRepository) Create(ctx context.Context, v *domain.ExperimentVersion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO experiment_versions (`+versionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.ExperimentID, v.Number, v.Name, v.Description, string(v.Status),
		util.ToNull(v.ParentID), v.ChangeLog, formatTime(v.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create version: %w", err)
	}

	for i, p := range v.Parameters {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO version_parameters (version_id, position, name, value, type, unit)
			VALUES (?, ?, ?, ?, ?, ?)`,
			v.ID, i, p.Name, p.Value, string(p.Type), p.Unit,
		)
		if err != nil {
			return fmt.Errorf("failed to add parameter %q: %w", p.Name, err)
		}
	}
	for i := range v.Files {
		if err := insertFile(ctx, tx, &v.Files[i]); err != nil {
			return err
		}
	}
	for k, val := range v.Metadata {
		if err := upsertMetadata(ctx, tx, v.ID, k, val); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *VersionRepository) GetByID(ctx context.Context, id string) (*domain.ExperimentVersion, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+versionColumns+` FROM experiment_versions WHERE id = ?`, id)
	v, err := scanVersion(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get version: %w", err)
	}

	params, err := r.parameters(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	v.Parameters = params
	if err := r.loadDetails(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VersionRepository) ListByExperiment(ctx context.Context, experimentID string) ([]*domain.ExperimentVersion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+versionColumns+` FROM experiment_versions
		WHERE experiment_id = ?
		ORDER BY version_number, created_at`, experimentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []*domain.ExperimentVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, v := range versions {
		if v.Parameters, err = r.parameters(ctx, v.ID); err != nil {
			return nil, err
		}
	}
	return versions, nil
}

func (r *VersionRepository) NextNumber(ctx context.Context, experimentID string) (int, error) {
	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(version_number) FROM experiment_versions WHERE experiment_id = ?`, experimentID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get next version number: %w", err)
	}
	return int(max.Int64) + 1, nil
}

func (r *VersionRepository) UpdateStatus(ctx context.Context, id string, status domain.VersionStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE experiment_versions SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update version status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *VersionRepository) parameters(ctx context.Context, versionID string) ([]domain.Parameter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, value, type, unit FROM version_parameters
		WHERE version_id = ? ORDER BY position`, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list parameters: %w", err)
	}
	defer rows.Close()

	var params []domain.Parameter
	for rows.Next() {
		var p domain.Parameter
		var typ string
		if err := rows.Scan(&p.Name, &p.Value, &typ, &p.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan parameter: %w", err)
		}
		p.Type = domain.ParamType(typ)
		params = append(params, p)
	}
	return params, rows.Err()
}

func scanVersion(s rowScanner) (*domain.ExperimentVersion, error) {
	var (
		v         domain.ExperimentVersion
		status    string
		parentID  sql.Null[string]
		createdAt string
	)
	err := s.Scan(&v.ID, &v.ExperimentID, &v.Number, &v.Name, &v.Description, &status,
		&parentID, &v.ChangeLog, &createdAt)
	if err != nil {
		return nil, err
	}
	v.Status = domain.VersionStatus(status)
	v.ParentID = util.FromNull(parentID)
	v.CreatedAt = parseTime(createdAt)
	return &v, nil
}
