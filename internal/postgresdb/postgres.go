package postgresdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resume-parser/internal/config"
	"resume-parser/internal/models"
	"resume-parser/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS resume_jobs (
		id            UUID PRIMARY KEY,
		file_name     TEXT NOT NULL,
		job_status    TEXT NOT NULL DEFAULT 'queued',
		result        JSONB,
		error_reason  TEXT,
		error_message TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, conf config.DatabaseConfig) (*Store, error) {
	if conf.DSN == "" {
		return nil, errors.New("database connection string is required")
	}

	poolConfig, err := pgxpool.ParseConfig(conf.DSN)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	// zero values keep the pgxpool defaults
	if conf.MaxConns > 0 {
		poolConfig.MaxConns = conf.MaxConns
	}
	if conf.MinConns > 0 {
		poolConfig.MinConns = conf.MinConns
	}
	if conf.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = conf.MaxConnLifetime
	}
	if conf.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = conf.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

// EnsureSchema creates the jobs table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("unable to create resume_jobs table: %w", err)
	}
	return nil
}

// Create inserts a queued job and fills in its timestamps.
func (s *Store) Create(ctx context.Context, job *models.Job) error {
	sql := `
		INSERT INTO resume_jobs (id, file_name, job_status)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
		`

	job.Status = models.StatusQueued

	err := s.Pool.QueryRow(ctx, sql, job.ID, job.FileName, job.Status.String()).
		Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert job %s: %w", job.ID, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	sql := `
		SELECT id, job_status, file_name, result, error_reason, error_message, created_at, updated_at
		FROM resume_jobs
		WHERE id = $1
		`

	var (
		job        models.Job
		statusText string
		resultJSON []byte
	)

	err := s.Pool.QueryRow(ctx, sql, jobID).Scan(
		&job.ID,
		&statusText,
		&job.FileName,
		&resultJSON,
		&job.ErrorReason,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve job %s: %w", jobID, err)
	}

	job.Status, err = models.ParseStatus(statusText)
	if err != nil {
		return nil, fmt.Errorf("database contains invalid job status: %w", err)
	}

	if resultJSON != nil {
		var result models.ParsedResume
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return nil, fmt.Errorf("failed to decode stored result for job %s: %w", jobID, err)
		}
		job.Result = &result
	}

	return &job, nil
}

func (s *Store) MarkProcessing(ctx context.Context, jobID uuid.UUID) error {
	sql := `
		UPDATE resume_jobs
		SET job_status = $2, updated_at = now()
		WHERE id = $1
		`

	return s.exec(ctx, jobID, sql, jobID, models.StatusProcessing.String())
}

func (s *Store) Complete(ctx context.Context, jobID uuid.UUID, result *models.ParsedResume) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result for job %s: %w", jobID, err)
	}

	sql := `
		UPDATE resume_jobs
		SET job_status = $2, result = $3, error_reason = NULL, error_message = NULL, updated_at = now()
		WHERE id = $1
		`

	return s.exec(ctx, jobID, sql, jobID, models.StatusCompleted.String(), resultJSON)
}

func (s *Store) Fail(ctx context.Context, jobID uuid.UUID, reason, message string) error {
	sql := `
		UPDATE resume_jobs
		SET job_status = $2, error_reason = $3, error_message = $4, updated_at = now()
		WHERE id = $1
		`

	return s.exec(ctx, jobID, sql, jobID, models.StatusFailed.String(), reason, message)
}

func (s *Store) exec(ctx context.Context, jobID uuid.UUID, sql string, args ...any) error {
	tag, err := s.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrJobNotFound
	}
	return nil
}
