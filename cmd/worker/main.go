package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fhuszti/stored-images-ms-go/internal/config"
	"github.com/fhuszti/stored-images-ms-go/internal/db"
	workerHandler "github.com/fhuszti/stored-images-ms-go/internal/handler/worker"
	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/prober"
	"github.com/fhuszti/stored-images-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/stored-images-ms-go/internal/task"
	imageSvc "github.com/fhuszti/stored-images-ms-go/internal/usecase/image"
	"github.com/hibiken/asynq"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	database := initDb(ctx, cfg)

	repo := mariadb.NewImageRepository(database.DB)
	probeSvc := imageSvc.NewImageProber(repo, prober.NewHTTPProber(prober.Options{
		Timeout:              cfg.ProbeTimeout,
		MaxBytes:             cfg.ProbeMaxBytes,
		AllowedHosts:         cfg.ProbeAllowedHosts,
		AllowPrivateNetworks: cfg.ProbeAllowPrivateNetworks,
	}))

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeProbeImage, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseProbeImagePayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ProbeImageHandler(ctx, p, probeSvc)
	})

	runWorker(ctx, mux, cfg, database)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings, database *db.Database) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{
		Concurrency:     cfg.WorkerConcurrency,
		ShutdownTimeout: 30 * time.Second,
	})

	if err := srv.Start(mux); err != nil {
		logger.Errorf(ctx, "❌  Worker failed to start: %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "🚀 Worker started with concurrency %d", cfg.WorkerConcurrency)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// blocks until in-flight tasks finish or ShutdownTimeout elapses
	srv.Shutdown()

	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
