package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "resume-parser/internal/errors"
	"resume-parser/internal/models"
	"resume-parser/internal/storage"
	"resume-parser/internal/valkeydb"
	"resume-parser/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

const bucket = "resumes"

type fixture struct {
	db       *mocks.MockJobStore
	queue    *mocks.MockJobQueue
	store    *mocks.MockFileStorer
	parser   *mocks.MockResumeParser
	notifier *mocks.MockNotifier
	proc     *JobProcessor
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		db:       new(mocks.MockJobStore),
		queue:    new(mocks.MockJobQueue),
		store:    new(mocks.MockFileStorer),
		parser:   new(mocks.MockResumeParser),
		notifier: new(mocks.MockNotifier),
	}
	f.proc = NewJobProcessor(f.db, f.queue, f.store, bucket, f.parser, f.notifier, zaptest.NewLogger(t), time.Millisecond)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.db.AssertExpectations(t)
	f.queue.AssertExpectations(t)
	f.store.AssertExpectations(t)
	f.parser.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func statusUpdate(status models.Status) any {
	return mock.MatchedBy(func(u models.JobUpdate) bool { return u.Status == status })
}

func queuedJob(id uuid.UUID) *models.Job {
	return &models.Job{ID: id, Status: models.StatusQueued, FileName: "resume.pdf"}
}

func TestProcessJobSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobID := uuid.New()
	pdfBytes := []byte("%PDF-1.4")
	result := &models.ParsedResume{Personal: models.PersonalInfo{FirstName: "Jane"}}

	f.db.On("Get", ctx, jobID).Return(queuedJob(jobID), nil)
	f.db.On("MarkProcessing", ctx, jobID).Return(nil)
	f.store.On("Download", ctx, bucket, jobID.String()+".pdf").Return(pdfBytes, nil)
	f.parser.On("Parse", ctx, pdfBytes).Return(result, nil)
	f.db.On("Complete", ctx, jobID, result).Return(nil)
	f.notifier.On("Publish", ctx, statusUpdate(models.StatusProcessing)).Return(nil).Once()
	f.notifier.On("Publish", ctx, statusUpdate(models.StatusCompleted)).Return(nil).Once()
	f.queue.On("Ack", ctx, jobID).Return(nil)

	f.proc.processJob(ctx, jobID)

	f.assertExpectations(t)
	f.db.AssertNotCalled(t, "Fail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessJobRejectedTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobID := uuid.New()

	f.db.On("Get", ctx, jobID).Return(queuedJob(jobID), nil)
	f.db.On("MarkProcessing", ctx, jobID).Return(nil)
	f.store.On("Download", ctx, bucket, mock.Anything).Return([]byte("%PDF-1.4"), nil)
	f.parser.On("Parse", ctx, mock.Anything).Return(nil, apperrors.NewWrongTemplate("word"))
	f.db.On("Fail", ctx, jobID, "wrong_template", apperrors.TemplateRejectionMessage).Return(nil)
	f.notifier.On("Publish", ctx, statusUpdate(models.StatusProcessing)).Return(nil).Once()
	f.notifier.On("Publish", ctx, statusUpdate(models.StatusFailed)).Return(nil).Once()
	f.queue.On("Ack", ctx, jobID).Return(nil)

	f.proc.processJob(ctx, jobID)

	f.assertExpectations(t)
	f.db.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	// permanent failures are not retried
	f.parser.AssertNumberOfCalls(t, "Parse", 1)
}

func TestProcessJobRetriesDownload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobID := uuid.New()
	pdfBytes := []byte("%PDF-1.4")
	result := &models.ParsedResume{}

	f.db.On("Get", ctx, jobID).Return(queuedJob(jobID), nil)
	f.db.On("MarkProcessing", ctx, jobID).Return(nil)
	f.store.On("Download", ctx, bucket, mock.Anything).Return(nil, errors.New("connection reset")).Twice()
	f.store.On("Download", ctx, bucket, mock.Anything).Return(pdfBytes, nil).Once()
	f.parser.On("Parse", ctx, pdfBytes).Return(result, nil)
	f.db.On("Complete", ctx, jobID, result).Return(nil)
	f.notifier.On("Publish", ctx, mock.Anything).Return(nil)
	f.queue.On("Ack", ctx, jobID).Return(nil)

	f.proc.processJob(ctx, jobID)

	f.assertExpectations(t)
	f.store.AssertNumberOfCalls(t, "Download", 3)
}

func TestProcessJobDownloadGivesUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobID := uuid.New()

	f.db.On("Get", ctx, jobID).Return(queuedJob(jobID), nil)
	f.db.On("MarkProcessing", ctx, jobID).Return(nil)
	f.store.On("Download", ctx, bucket, mock.Anything).Return(nil, errors.New("no such key"))
	f.db.On("Fail", ctx, jobID, reasonDownloadFailed, mock.AnythingOfType("string")).Return(nil)
	f.notifier.On("Publish", ctx, mock.Anything).Return(nil)
	f.queue.On("Ack", ctx, jobID).Return(nil)

	f.proc.processJob(ctx, jobID)

	f.assertExpectations(t)
	f.store.AssertNumberOfCalls(t, "Download", maxRetries)
	f.parser.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything)
}

func TestProcessJobRetriesStatusWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobID := uuid.New()
	pdfBytes := []byte("%PDF-1.4")
	result := &models.ParsedResume{}

	f.db.On("Get", ctx, jobID).Return(queuedJob(jobID), nil)
	f.db.On("MarkProcessing", ctx, jobID).Return(errors.New("conn busy")).Once()
	f.db.On("MarkProcessing", ctx, jobID).Return(nil).Once()
	f.store.On("Download", ctx, bucket, mock.Anything).Return(pdfBytes, nil)
	f.parser.On("Parse", ctx, pdfBytes).Return(result, nil)
	f.db.On("Complete", ctx, jobID, result).Return(errors.New("conn reset")).Twice()
	f.db.On("Complete", ctx, jobID, result).Return(nil).Once()
	f.notifier.On("Publish", ctx, mock.Anything).Return(nil)
	f.queue.On("Ack", ctx, jobID).Return(errors.New("valkey timeout")).Once()
	f.queue.On("Ack", ctx, jobID).Return(nil).Once()

	f.proc.processJob(ctx, jobID)

	f.assertExpectations(t)
	f.db.AssertNumberOfCalls(t, "MarkProcessing", 2)
	f.db.AssertNumberOfCalls(t, "Complete", 3)
	f.queue.AssertNumberOfCalls(t, "Ack", 2)
}

func TestProcessJobCompleteGivesUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobID := uuid.New()
	result := &models.ParsedResume{}

	f.db.On("Get", ctx, jobID).Return(queuedJob(jobID), nil)
	f.db.On("MarkProcessing", ctx, jobID).Return(nil)
	f.store.On("Download", ctx, bucket, mock.Anything).Return([]byte("%PDF-1.4"), nil)
	f.parser.On("Parse", ctx, mock.Anything).Return(result, nil)
	f.db.On("Complete", ctx, jobID, result).Return(errors.New("database down"))
	f.notifier.On("Publish", ctx, statusUpdate(models.StatusProcessing)).Return(nil).Once()

	f.proc.processJob(ctx, jobID)

	f.assertExpectations(t)
	f.db.AssertNumberOfCalls(t, "Complete", maxRetries)
	f.notifier.AssertNotCalled(t, "Publish", ctx, statusUpdate(models.StatusCompleted))
	f.queue.AssertNotCalled(t, "Ack", mock.Anything, mock.Anything)
}

func TestProcessJobRetriesFailWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobID := uuid.New()

	f.db.On("Get", ctx, jobID).Return(queuedJob(jobID), nil)
	f.db.On("MarkProcessing", ctx, jobID).Return(nil)
	f.store.On("Download", ctx, bucket, mock.Anything).Return([]byte("%PDF-1.4"), nil)
	f.parser.On("Parse", ctx, mock.Anything).Return(nil, apperrors.NewWrongTemplate("word"))
	f.db.On("Fail", ctx, jobID, "wrong_template", apperrors.TemplateRejectionMessage).Return(errors.New("conn busy")).Once()
	f.db.On("Fail", ctx, jobID, "wrong_template", apperrors.TemplateRejectionMessage).Return(nil).Once()
	f.notifier.On("Publish", ctx, mock.Anything).Return(nil)
	f.queue.On("Ack", ctx, jobID).Return(nil)

	f.proc.processJob(ctx, jobID)

	f.assertExpectations(t)
	f.db.AssertNumberOfCalls(t, "Fail", 2)
	f.queue.AssertNumberOfCalls(t, "Ack", 1)
}

func TestProcessJobMissingRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobID := uuid.New()

	f.db.On("Get", ctx, jobID).Return(nil, storage.ErrJobNotFound)
	f.queue.On("Ack", ctx, jobID).Return(nil)

	f.proc.processJob(ctx, jobID)

	f.assertExpectations(t)
	f.db.AssertNumberOfCalls(t, "Get", 1)
	f.db.AssertNotCalled(t, "MarkProcessing", mock.Anything, mock.Anything)
}

func TestProcessJobAlreadyFinished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobID := uuid.New()

	f.db.On("Get", ctx, jobID).Return(&models.Job{ID: jobID, Status: models.StatusCompleted}, nil)
	f.queue.On("Ack", ctx, jobID).Return(nil)

	f.proc.processJob(ctx, jobID)

	f.assertExpectations(t)
	f.store.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessJobFetchKeepsFailing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobID := uuid.New()

	f.db.On("Get", ctx, jobID).Return(nil, errors.New("connection refused"))

	f.proc.processJob(ctx, jobID)

	f.db.AssertNumberOfCalls(t, "Get", maxRetries)
	f.queue.AssertNotCalled(t, "Ack", mock.Anything, mock.Anything)
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	f.queue.On("Consume", ctx).Return(uuid.Nil, valkeydb.ErrQueueEmpty).Run(func(mock.Arguments) {
		cancel()
	}).Once()

	done := make(chan struct{})
	go func() {
		f.proc.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	f.queue.AssertExpectations(t)
}

func TestRunBacksOffOnQueueError(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.queue.On("Consume", ctx).Return(uuid.Nil, errors.New("valkey down")).Once()
	f.queue.On("Consume", ctx).Return(uuid.Nil, valkeydb.ErrQueueEmpty).Run(func(mock.Arguments) {
		cancel()
	}).Once()

	f.proc.Run(ctx)

	f.queue.AssertNumberOfCalls(t, "Consume", 2)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transient", errors.New("timeout"), true},
		{"rejection", apperrors.NewMalformedInput(errors.New("boom")), false},
		{"not found", storage.ErrJobNotFound, false},
		{"cancelled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}
