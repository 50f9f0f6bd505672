package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

type ExperimentRepository struct {
	db *sql.DB
}

func NewExperimentRepository(db *sql.DB) *ExperimentRepository {
	return &ExperimentRepository{db: db}
}

const experimentColumns = `id, title, goal, hypothesis, timeline, equipment, budget, status, last_modified, created_at`

func (r *ExperimentRepository) Create(ctx context.Context, e *domain.Experiment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO experiments (`+experimentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Goal, e.Hypothesis, e.Timeline, e.Equipment, e.Budget,
		string(e.Status), e.LastModified, formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create experiment: %w", err)
	}

	if err := insertFiles(ctx, tx, e.ID, e.Files); err != nil {
		return err
	}

	return tx.Commit()
}

func insertFiles(ctx context.Context, tx *sql.Tx, experimentID string, files []string) error {
	for i, name := range files {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO experiment_files (experiment_id, position, name) VALUES (?, ?, ?)`,
			experimentID, i, name,
		)
		if err != nil {
			return fmt.Errorf("failed to add file %q: %w", name, err)
		}
	}
	return nil
}

func (r *ExperimentRepository) GetByID(ctx context.Context, id string) (*domain.Experiment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+experimentColumns+` FROM experiments WHERE id = ?`, id)
	e, err := scanExperiment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}

	files, err := r.files(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Files = files
	return e, nil
}

func (r *ExperimentRepository) List(ctx context.Context) ([]*domain.Experiment, error) {
	return withRetry(ctx, 2, func() ([]*domain.Experiment, error) {
		rows, err := r.db.QueryContext(ctx, `SELECT `+experimentColumns+` FROM experiments ORDER BY created_at, id`)
		if err != nil {
			return nil, fmt.Errorf("failed to list experiments: %w", err)
		}
		defer rows.Close()

		var experiments []*domain.Experiment
		byID := make(map[string]*domain.Experiment)
		for rows.Next() {
			e, err := scanExperiment(rows)
			if err != nil {
				return nil, fmt.Errorf("failed to scan experiment: %w", err)
			}
			experiments = append(experiments, e)
			byID[e.ID] = e
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}

		fileRows, err := r.db.QueryContext(ctx, `SELECT experiment_id, name FROM experiment_files ORDER BY experiment_id, position`)
		if err != nil {
			return nil, fmt.Errorf("failed to list experiment files: %w", err)
		}
		defer fileRows.Close()

		for fileRows.Next() {
			var experimentID, name string
			if err := fileRows.Scan(&experimentID, &name); err != nil {
				return nil, fmt.Errorf("failed to scan experiment file: %w", err)
			}
			if e := byID[experimentID]; e != nil {
				e.Files = append(e.Files, name)
			}
		}
		return experiments, fileRows.Err()
	})
}

func (r *ExperimentRepository) Update(ctx context.Context, e *domain.Experiment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE experiments
		SET title = ?, goal = ?, hypothesis = ?, timeline = ?, equipment = ?, budget = ?,
			status = ?, last_modified = ?
		WHERE id = ?`,
		e.Title, e.Goal, e.Hypothesis, e.Timeline, e.Equipment, e.Budget,
		string(e.Status), e.LastModified, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update experiment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("experiment %s: %w", e.ID, domain.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM experiment_files WHERE experiment_id = ?`, e.ID); err != nil {
		return fmt.Errorf("failed to clear experiment files: %w", err)
	}
	if err := insertFiles(ctx, tx, e.ID, e.Files); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ExperimentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM experiments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete experiment: %w", err)
	}
	return nil
}

func (r *ExperimentRepository) files(ctx context.Context, experimentID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM experiment_files WHERE experiment_id = ? ORDER BY position`, experimentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiment files: %w", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan experiment file: %w", err)
		}
		files = append(files, name)
	}
	return files, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExperiment(s rowScanner) (*domain.Experiment, error) {
	var (
		e         domain.Experiment
		status    string
		createdAt string
	)
	err := s.Scan(&e.ID, &e.Title, &e.Goal, &e.Hypothesis, &e.Timeline, &e.Equipment, &e.Budget,
		&status, &e.LastModified, &createdAt)
	if err != nil {
		return nil, err
	}
	e.Status = domain.ParseStatus(status)
	e.CreatedAt = parseTime(createdAt)
	return &e, nil
}
