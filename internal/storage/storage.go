package storage

import (
	"context"
	"errors"

	"resume-parser/internal/models"

	"github.com/google/uuid"
)

var ErrJobNotFound = errors.New("job not found")

type JobCreator interface {
	Create(ctx context.Context, job *models.Job) error
}

type JobReader interface {
	Get(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
}

type JobUpdater interface {
	MarkProcessing(ctx context.Context, jobID uuid.UUID) error
	Complete(ctx context.Context, jobID uuid.UUID, result *models.ParsedResume) error
	Fail(ctx context.Context, jobID uuid.UUID, reason, message string) error
}

type JobStore interface {
	JobCreator
	JobReader
	JobUpdater
}
