package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-dashboard-verification/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS verification_runs (
	id                 UUID PRIMARY KEY,
	target_url         TEXT NOT NULL,
	status             TEXT NOT NULL,
	screenshots        JSONB NOT NULL DEFAULT '[]',
	privacy_toggled    BOOLEAN NOT NULL DEFAULT FALSE,
	origin_chart_found BOOLEAN NOT NULL DEFAULT FALSE,
	navigations        INTEGER NOT NULL DEFAULT 0,
	error              TEXT,
	started_at         TIMESTAMPTZ NOT NULL,
	finished_at        TIMESTAMPTZ NOT NULL
)`

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// PgBouncer in transaction mode does not support prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// EnsureSchema creates the runs table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (r *Repository) Name() string {
	return "postgres"
}

// Record satisfies verify.Recorder.
func (r *Repository) Record(ctx context.Context, run *models.Run) error {
	return r.SaveRun(ctx, run)
}

// SaveRun inserts a run, or overwrites it when the ID already exists
func (r *Repository) SaveRun(ctx context.Context, run *models.Run) error {
	shots, err := json.Marshal(run.Screenshots)
	if err != nil {
		return fmt.Errorf("failed to marshal screenshots: %w", err)
	}

	query := `
		INSERT INTO verification_runs (id, target_url, status, screenshots, privacy_toggled, origin_chart_found, navigations, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)
		ON CONFLICT (id)
		DO UPDATE SET status = EXCLUDED.status, screenshots = EXCLUDED.screenshots, error = EXCLUDED.error, finished_at = EXCLUDED.finished_at`

	_, err = r.db.Exec(ctx, query, run.ID, run.TargetURL, string(run.Status), string(shots),
		run.PrivacyToggled, run.OriginChartFound, run.Navigations, run.Error, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

const selectRun = `SELECT id::text, target_url, status, screenshots, privacy_toggled, origin_chart_found, navigations, COALESCE(error, ''), started_at, finished_at FROM verification_runs`

// ListRuns returns the most recent runs, newest first
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]models.Run, error) {
	rows, err := r.db.Query(ctx, selectRun+" ORDER BY started_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func (r *Repository) GetRun(ctx context.Context, id string) (*models.Run, error) {
	run, err := scanRun(r.db.QueryRow(ctx, selectRun+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return run, err
}

func scanRun(row pgx.Row) (*models.Run, error) {
	var run models.Run
	var status string
	var shots []byte

	err := row.Scan(&run.ID, &run.TargetURL, &status, &shots, &run.PrivacyToggled,
		&run.OriginChartFound, &run.Navigations, &run.Error, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Status = models.RunStatus(status)
	if len(shots) > 0 {
		if err := json.Unmarshal(shots, &run.Screenshots); err != nil {
			return nil, fmt.Errorf("failed to decode screenshots: %w", err)
		}
	}
	return &run, nil
}
