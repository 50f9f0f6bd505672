package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const fileColumns = `id, version_id, source_type, path_or_url, file_hash, file_type, size_bytes, uploaded_at`

func (r *VersionRepository) AddFile(ctx context.Context, f *domain.FileReference) error {
	if err := r.requireVersion(ctx, f.VersionID); err != nil {
		return err
	}
	return insertFile(ctx, r.db, f)
}

func (r *VersionRepository) AddResult(ctx context.Context, res *domain.Result) error {
	if err := r.requireVersion(ctx, res.VersionID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO version_results (id, version_id, data, metrics, is_approved, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		res.ID, res.VersionID, string(res.Data), res.Metrics, res.Approved, formatTime(res.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to add result: %w", err)
	}
	return nil
}

func (r *VersionRepository) SetMetadata(ctx context.Context, versionID, key, value string) error {
	if err := r.requireVersion(ctx, versionID); err != nil {
		return err
	}
	return upsertMetadata(ctx, r.db, versionID, key, value)
}

func (r *VersionRepository) requireVersion(ctx context.Context, id string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM experiment_versions WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check version: %w", err)
	}
	return nil
}

func insertFile(ctx context.Context, db execer, f *domain.FileReference) error {
	var fileType sql.Null[string]
	if f.FileType != "" {
		fileType = sql.Null[string]{V: string(f.FileType), Valid: true}
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO version_files (`+fileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.VersionID, string(f.SourceType), f.PathOrURL, f.Hash, fileType, f.Size, formatTime(f.UploadedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to add file %q: %w", f.PathOrURL, err)
	}
	return nil
}

func upsertMetadata(ctx context.Context, db execer, versionID, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO version_metadata (version_id, key, value, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT (version_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		versionID, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set metadata %q: %w", key, err)
	}
	return nil
}

// loadDetails fills the file references, results and metadata of v.
func (r *VersionRepository) loadDetails(ctx context.Context, v *domain.ExperimentVersion) error {
	var err error
	if v.Files, err = r.files(ctx, v.ID); err != nil {
		return err
	}
	if v.Results, err = r.results(ctx, v.ID); err != nil {
		return err
	}
	v.Metadata, err = r.metadata(ctx, v.ID)
	return err
}

func (r *VersionRepository) files(ctx context.Context, versionID string) ([]domain.FileReference, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+fileColumns+` FROM version_files
		WHERE version_id = ? ORDER BY uploaded_at, id`, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []domain.FileReference
	for rows.Next() {
		var (
			f          domain.FileReference
			source     string
			fileType   sql.Null[string]
			uploadedAt string
		)
		if err := rows.Scan(&f.ID, &f.VersionID, &source, &f.PathOrURL, &f.Hash, &fileType, &f.Size, &uploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		f.SourceType = domain.SourceType(source)
		f.FileType = domain.FileType(fileType.V)
		f.UploadedAt = parseTime(uploadedAt)
		files = append(files, f)
	}
	return files, rows.Err()
}

func (r *VersionRepository) results(ctx context.Context, versionID string) ([]domain.Result, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, version_id, data, metrics, is_approved, created_at FROM version_results
		WHERE version_id = ? ORDER BY created_at, id`, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []domain.Result
	for rows.Next() {
		var (
			res       domain.Result
			data      string
			createdAt string
		)
		if err := rows.Scan(&res.ID, &res.VersionID, &data, &res.Metrics, &res.Approved, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.Data = []byte(data)
		res.CreatedAt = parseTime(createdAt)
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *VersionRepository) metadata(ctx context.Context, versionID string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM version_metadata WHERE version_id = ?`, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	defer rows.Close()

	var md map[string]string
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		if md == nil {
			md = make(map[string]string)
		}
		md[k] = v
	}
	return md, rows.Err()
}
