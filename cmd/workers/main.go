package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"resume-parser/internal/config"
	"resume-parser/internal/logging"
	"resume-parser/internal/notify"
	"resume-parser/internal/parser"
	"resume-parser/internal/postgresdb"
	"resume-parser/internal/processor"
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
	if err := cfg.ValidateAsync(); err != nil {
		logger.Fatal("worker backends not configured", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	var notifier processor.Notifier = notify.Nop{}
	if cfg.RabbitMQ.URL != "" {
		publisher, err := notify.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer publisher.Close()
		notifier = publisher
	}

	service, err := resume.NewDefaultService(parser.Options{
		Divider:       cfg.Resume.Divider,
		StrictMarkers: cfg.Resume.StrictMarkers,
	}, cfg.Resume.TemplateAuthor, logger.Named("resume"))
	if err != nil {
		logger.Fatal("failed to create resume service", zap.Error(err))
	}

	workerQueue := processor.NewJobProcessor(
		postgresDB,
		valkeyQueue,
		s3Store,
		cfg.S3.Bucket,
		service,
		notifier,
		logger.Named("processor"),
		cfg.Worker.RetryBackoff,
	)

	runUntilShutdown(ctx, logger, workerQueue.Run)
}

// runUntilShutdown runs the processor until ctx is cancelled and waits for its current
// job to wind down.
func runUntilShutdown(ctx context.Context, logger *zap.Logger, run func(context.Context)) {
	done := make(chan struct{})
	go func() {
		run(ctx)
		close(done)
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping workers")
	<-done

	logger.Info("worker shutdown complete")
}
