package objectstore

import (
	"context"
	"io"

	"github.com/google/uuid"
)

const PDFContentType = "application/pdf"

// FileStorer keeps the uploaded resume PDFs between the API and the worker.
type FileStorer interface {
	Upload(ctx context.Context, file io.Reader, bucket, key, contentType string) (string, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}

// KeyForJob is the object key an upload is stored under.
func KeyForJob(jobID uuid.UUID) string {
	return jobID.String() + ".pdf"
}
