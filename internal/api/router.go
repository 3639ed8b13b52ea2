package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

func NewRouter(h *APIHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /parser", h.HandleParseResume)
	mux.HandleFunc("GET /health", h.HandleHealth)

	if h.asyncEnabled() {
		mux.HandleFunc("POST /resumes", h.HandleUploadResume)
		mux.HandleFunc("GET /resumes/{jobId}", h.HandleViewResult)
	}

	return logRequests(h.logger, mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
