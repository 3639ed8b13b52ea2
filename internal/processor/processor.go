package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "resume-parser/internal/errors"
	"resume-parser/internal/models"
	"resume-parser/internal/objectstore"
	"resume-parser/internal/storage"
	"resume-parser/internal/valkeydb"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxRetries = 3

// failure reasons recorded for jobs that never reach the parser
const (
	reasonDownloadFailed = "download_failed"
	reasonInvalidResult  = "invalid_result"
)

type JobQueue interface {
	Consume(ctx context.Context) (uuid.UUID, error)
	Ack(ctx context.Context, jobID uuid.UUID) error
}

type ResumeParser interface {
	Parse(ctx context.Context, data []byte) (*models.ParsedResume, error)
}

type Notifier interface {
	Publish(ctx context.Context, update models.JobUpdate) error
}

type JobProcessor struct {
	db       storage.JobStore
	queue    JobQueue
	store    objectstore.FileStorer
	s3Bucket string
	parser   ResumeParser
	notifier Notifier
	logger   *zap.Logger
	backoff  time.Duration
}

func NewJobProcessor(
	db storage.JobStore,
	queue JobQueue,
	store objectstore.FileStorer,
	s3Bucket string,
	parser ResumeParser,
	notifier Notifier,
	logger *zap.Logger,
	backoff time.Duration,
) *JobProcessor {
	return &JobProcessor{
		db:       db,
		queue:    queue,
		store:    store,
		s3Bucket: s3Bucket,
		parser:   parser,
		notifier: notifier,
		logger:   logger,
		backoff:  backoff,
	}
}

// Run consumes jobs until ctx is cancelled.
func (p *JobProcessor) Run(ctx context.Context) {
	p.logger.Info("job processor has started, waiting for jobs")

	for {
		if ctx.Err() != nil {
			p.logger.Info("job processor stopped")
			return
		}

		jobID, err := p.queue.Consume(ctx)
		if errors.Is(err, valkeydb.ErrQueueEmpty) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Error("error consuming job from queue", zap.Error(err))
			p.sleep(ctx, p.backoff)
			continue
		}

		p.processJob(ctx, jobID)
	}
}

func (p *JobProcessor) processJob(ctx context.Context, jobID uuid.UUID) {
	logger := p.logger.With(zap.Stringer("job_id", jobID))
	logger.Info("processing job")

	job, err := p.fetchJobWithRetry(ctx, jobID)
	if errors.Is(err, storage.ErrJobNotFound) {
		logger.Warn("job row missing, dropping queue entry")
		p.ack(ctx, logger, jobID)
		return
	}
	if err != nil {
		// TODO: requeue ids stranded on the processing list when a worker dies or a
		// store write keeps failing past its retries
		logger.Error("failed to fetch job", zap.Error(err))
		return
	}

	if job.Status == models.StatusCompleted || job.Status == models.StatusFailed {
		logger.Info("job already finished", zap.Stringer("status", job.Status))
		p.ack(ctx, logger, jobID)
		return
	}

	err = p.retry(ctx, logger, "mark job as processing", func() error {
		return p.db.MarkProcessing(ctx, jobID)
	})
	if err != nil {
		logger.Error("failed to mark job as processing", zap.Error(err))
		return
	}
	p.notify(ctx, logger, jobID, models.StatusProcessing, "resume is being parsed")

	result, reason, err := p.parseJobFile(ctx, jobID)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("job interrupted by shutdown")
			return
		}
		logger.Warn("job failed", zap.String("reason", reason), zap.Error(err))
		p.fail(ctx, logger, jobID, reason, err)
		return
	}

	err = p.retry(ctx, logger, "save job result", func() error {
		return p.db.Complete(ctx, jobID, result)
	})
	if err != nil {
		logger.Error("failed to save job result", zap.Error(err))
		return
	}
	p.notify(ctx, logger, jobID, models.StatusCompleted, "resume parsed")
	p.ack(ctx, logger, jobID)

	logger.Info("job completed")
}

// parseJobFile downloads the upload and runs it through the parser. On failure it also
// returns the reason stored on the job.
func (p *JobProcessor) parseJobFile(ctx context.Context, jobID uuid.UUID) (*models.ParsedResume, string, error) {
	data, err := p.downloadWithRetry(ctx, objectstore.KeyForJob(jobID))
	if err != nil {
		return nil, reasonDownloadFailed, err
	}

	result, err := p.parser.Parse(ctx, data)
	if err != nil {
		if r, ok := apperrors.AsRejection(err); ok {
			return nil, r.Kind.String(), r
		}
		return nil, apperrors.KindUnknown.String(), err
	}

	if err := result.Validate(); err != nil {
		return nil, reasonInvalidResult, err
	}

	return result, "", nil
}

func (p *JobProcessor) fail(ctx context.Context, logger *zap.Logger, jobID uuid.UUID, reason string, cause error) {
	message := cause.Error()
	if r, ok := apperrors.AsRejection(cause); ok {
		message = r.Message
	}

	err := p.retry(ctx, logger, "mark job as failed", func() error {
		return p.db.Fail(ctx, jobID, reason, message)
	})
	if err != nil {
		logger.Error("failed to mark job as failed", zap.Error(err))
		return
	}
	p.notify(ctx, logger, jobID, models.StatusFailed, message)
	p.ack(ctx, logger, jobID)
}

func (p *JobProcessor) fetchJobWithRetry(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	var job *models.Job
	err := p.retry(ctx, p.logger.With(zap.Stringer("job_id", jobID)), "fetch job", func() error {
		var err error
		job, err = p.db.Get(ctx, jobID)
		return err
	})
	return job, err
}

func (p *JobProcessor) downloadWithRetry(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := p.retry(ctx, p.logger.With(zap.String("key", key)), "download", func() error {
		var err error
		data, err = p.store.Download(ctx, p.s3Bucket, key)
		return err
	})
	return data, err
}

// retry runs op up to maxRetries times, backing off exponentially between attempts.
// Errors that are not retryable come back at once.
func (p *JobProcessor) retry(ctx context.Context, logger *zap.Logger, action string, op func() error) error {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := op()
		if err == nil || !isRetryable(err) {
			return err
		}
		lastErr = err

		logger.Warn("retrying "+action, zap.Int("attempt", i+1), zap.Error(err))

		// exponential backoff
		if !p.sleep(ctx, p.backoff<<i) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("failed to %s after %d retries: %w", action, maxRetries, lastErr)
}

func (p *JobProcessor) notify(ctx context.Context, logger *zap.Logger, jobID uuid.UUID, status models.Status, message string) {
	update := models.JobUpdate{
		JobID:     jobID,
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	if err := p.notifier.Publish(ctx, update); err != nil {
		logger.Warn("failed to publish job update", zap.Error(err))
	}
}

func (p *JobProcessor) ack(ctx context.Context, logger *zap.Logger, jobID uuid.UUID) {
	err := p.retry(ctx, logger, "ack job", func() error {
		return p.queue.Ack(ctx, jobID)
	})
	if err != nil {
		logger.Error("failed to ack job", zap.Error(err))
	}
}

// sleep waits for d and reports false if ctx ended first.
func (p *JobProcessor) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func isRetryable(err error) bool {
	switch {
	case errors.Is(err, apperrors.ErrPermanentFailure),
		errors.Is(err, storage.ErrJobNotFound),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
