package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-parser/internal/api"
	"resume-parser/internal/config"
	"resume-parser/internal/logging"
	"resume-parser/internal/parser"
	"resume-parser/internal/postgresdb"
	"resume-parser/internal/resume"
	"resume-parser/internal/s3"
	"resume-parser/internal/valkeydb"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, err := resume.NewDefaultService(parser.Options{
		Divider:       cfg.Resume.Divider,
		StrictMarkers: cfg.Resume.StrictMarkers,
	}, cfg.Resume.TemplateAuthor, logger.Named("resume"))
	if err != nil {
		logger.Fatal("failed to create resume service", zap.Error(err))
	}

	apiHandler := api.NewAPIHandler(service, logger.Named("api"), cfg.Server.MaxUploadBytes)

	if cfg.AsyncEnabled() {
		postgresDB, err := postgresdb.New(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("failed to initialize postgresdb", zap.Error(err))
		}
		defer postgresDB.Close()

		if err := postgresDB.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to prepare schema", zap.Error(err))
		}

		valkeyQueue, err := valkeydb.New(ctx, cfg.Valkey.Addr, cfg.Valkey.Password, cfg.Valkey.PollTimeout)
		if err != nil {
			logger.Fatal("failed to initialize valkey", zap.Error(err))
		}
		defer valkeyQueue.Close()

		s3Store, err := s3.NewFileStore(ctx, cfg.S3)
		if err != nil {
			logger.Fatal("could not create S3 filestore", zap.Error(err))
		}

		apiHandler.WithJobs(postgresDB, valkeyQueue, s3Store, cfg.S3.Bucket)
		logger.Info("async resume jobs enabled", zap.String("bucket", cfg.S3.Bucket))
	} else {
		logger.Info("async resume jobs disabled", zap.NamedError("reason", cfg.ValidateAsync()))
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(apiHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server shutdown complete")
}
