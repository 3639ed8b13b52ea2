package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "resume-parser/internal/errors"
	"resume-parser/internal/models"
	"resume-parser/internal/objectstore"
	"resume-parser/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ResumeParser interface {
	Parse(ctx context.Context, data []byte) (*models.ParsedResume, error)
}

type JobStore interface {
	storage.JobCreator
	storage.JobReader
}

type Producer interface {
	Produce(ctx context.Context, jobID uuid.UUID) error
}

type Uploader interface {
	Upload(ctx context.Context, file io.Reader, bucket, key, contentType string) (string, error)
}

type APIHandler struct {
	parser         ResumeParser
	logger         *zap.Logger
	maxUploadBytes int64

	// async backends, nil when not configured
	job      JobStore
	queue    Producer
	uploader Uploader
	s3Bucket string
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

type uploadResponse struct {
	JobID uuid.UUID `json:"jobId"`
}

func NewAPIHandler(parser ResumeParser, logger *zap.Logger, maxUploadBytes int64) *APIHandler {
	return &APIHandler{
		parser:         parser,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// WithJobs enables the upload and result endpoints.
func (h *APIHandler) WithJobs(db JobStore, queue Producer, store Uploader, s3Bucket string) *APIHandler {
	h.job = db
	h.queue = queue
	h.uploader = store
	h.s3Bucket = s3Bucket
	return h
}

func (h *APIHandler) asyncEnabled() bool {
	return h.job != nil && h.queue != nil && h.uploader != nil
}

// HandleParseResume parses an uploaded PDF synchronously.
func (h *APIHandler) HandleParseResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	defer r.Body.Close()

	data, ok := h.readUpload(w, r, "file")
	if !ok {
		return
	}

	result, err := h.parser.Parse(r.Context(), data)
	if err != nil {
		h.writeParseError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) HandleUploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	defer r.Body.Close()

	file, fileHeader, err := r.FormFile("resume")
	if err != nil {
		h.writeFormError(w, err)
		return
	}
	defer file.Close()

	jobID, err := uuid.NewV7()
	if err != nil {
		h.logger.Error("failed to generate job id", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "An error occurred while processing your resume"})
		return
	}

	logger := h.logger.With(zap.Stringer("job_id", jobID))
	key := objectstore.KeyForJob(jobID)

	location, err := h.uploader.Upload(r.Context(), file, h.s3Bucket, key, objectstore.PDFContentType)
	if err != nil {
		logger.Error("failed to upload resume", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to upload file"})
		return
	}

	newJob := &models.Job{
		ID:       jobID,
		FileName: fileHeader.Filename,
		Status:   models.StatusQueued,
	}

	if err := h.job.Create(r.Context(), newJob); err != nil {
		logger.Error("failed to create job", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "An error occurred while processing your resume"})
		return
	}

	if err := h.queue.Produce(r.Context(), jobID); err != nil {
		logger.Error("failed to enqueue job", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "An error occurred while processing your resume"})
		return
	}

	logger.Info("job queued", zap.String("location", location))
	h.writeJSON(w, http.StatusAccepted, uploadResponse{JobID: jobID})
}

func (h *APIHandler) HandleViewResult(w http.ResponseWriter, r *http.Request) {
	jobIDString := r.PathValue("jobId")

	jobID, err := uuid.Parse(jobIDString)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid job id format"})
		return
	}

	job, err := h.job.Get(r.Context(), jobID)
	if errors.Is(err, storage.ErrJobNotFound) {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Job not found"})
		return
	}
	if err != nil {
		h.logger.Error("error retrieving job", zap.String("job_id", jobIDString), zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to retrieve job"})
		return
	}

	h.writeJSON(w, http.StatusOK, job)
}

func (h *APIHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}

func (h *APIHandler) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, bool) {
	file, _, err := r.FormFile(field)
	if err != nil {
		h.writeFormError(w, err)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeFormError(w, err)
		return nil, false
	}
	return data, true
}

func (h *APIHandler) writeFormError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large"})
		return
	}
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "An error occurred upon retrieving the file."})
}

// writeParseError maps a parse failure onto the response contract.
func (h *APIHandler) writeParseError(w http.ResponseWriter, err error) {
	r, ok := apperrors.AsRejection(err)
	if !ok {
		h.logger.Error("resume parse failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "An error occurred while processing your resume"})
		return
	}

	switch r.Kind {
	case apperrors.DecodeError:
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: r.Message})
	case apperrors.WrongTemplate, apperrors.MalformedInput:
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: r.Message, Reason: r.Kind.String()})
	default:
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: r.Message})
	}
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}
