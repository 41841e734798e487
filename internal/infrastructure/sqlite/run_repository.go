package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zjrosen/releasetrain/internal/history"
)

const runColumns = `id, guid, target, dry_run, state, cursor, reason, packages, started_at, finished_at`

// runRepository implements history.Repository using SQLite.
type runRepository struct {
	db *sql.DB
}

func newRunRepository(db *sql.DB) *runRepository {
	return &runRepository{db: db}
}

var _ history.Repository = (*runRepository)(nil)

func scanRun(scanner interface{ Scan(...any) error }) (*RunModel, error) {
	var m RunModel
	err := scanner.Scan(
		&m.ID, &m.GUID, &m.Target, &m.DryRun, &m.State, &m.Cursor,
		&m.Reason, &m.Packages, &m.StartedAt, &m.FinishedAt,
	)
	return &m, err
}

// Save persists a run and replaces its steps in one transaction.
func (r *runRepository) Save(ctx context.Context, run *history.Run) error {
	model, err := toRunModel(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if run.ID == 0 {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO runs (guid, target, dry_run, state, cursor, reason, packages, started_at, finished_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			model.GUID, model.Target, model.DryRun, model.State, model.Cursor,
			model.Reason, model.Packages, model.StartedAt, model.FinishedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		model.ID = id
	} else {
		result, err := tx.ExecContext(ctx,
			`UPDATE runs SET state = ?, cursor = ?, reason = ?, packages = ?, finished_at = ? WHERE id = ?`,
			model.State, model.Cursor, model.Reason, model.Packages, model.FinishedAt, model.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update run: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			return &history.RunNotFoundError{GUID: run.GUID}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM run_steps WHERE run_id = ?`, model.ID); err != nil {
			return fmt.Errorf("failed to clear run steps: %w", err)
		}
	}

	for _, step := range run.Steps {
		s := toStepModel(step)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_steps (run_id, position, package, outcome, reason, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
			model.ID, s.Position, s.Package, s.Outcome, s.Reason, s.DurationMS,
		); err != nil {
			return fmt.Errorf("failed to insert run step: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	run.ID = model.ID
	return nil
}

// FindByGUID retrieves a run with its steps.
func (r *runRepository) FindByGUID(ctx context.Context, guid string) (*history.Run, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE guid = ?`, guid)
	model, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &history.RunNotFoundError{GUID: guid}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find run: %w", err)
	}
	steps, err := r.steps(ctx, model.ID)
	if err != nil {
		return nil, err
	}
	return model.toDomain(steps), nil
}

// Recent lists runs newest first.
func (r *runRepository) Recent(ctx context.Context, limit int) ([]*history.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	var models []*RunModel
	for rows.Next() {
		m, err := scanRun(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}
	_ = rows.Close()

	runs := make([]*history.Run, 0, len(models))
	for _, m := range models {
		steps, err := r.steps(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		runs = append(runs, m.toDomain(steps))
	}
	return runs, nil
}

func (r *runRepository) steps(ctx context.Context, runID int64) ([]StepModel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT position, package, outcome, reason, duration_ms FROM run_steps WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run steps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var steps []StepModel
	for rows.Next() {
		var s StepModel
		if err := rows.Scan(&s.Position, &s.Package, &s.Outcome, &s.Reason, &s.DurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan run step: %w", err)
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}
