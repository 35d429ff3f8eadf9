package testutil

import (
	"context"
	"database/sql"
	"time"

	workerHandler "github.com/fhuszti/stored-images-ms-go/internal/handler/worker"
	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/prober"
	"github.com/fhuszti/stored-images-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/stored-images-ms-go/internal/task"
	imageSvc "github.com/fhuszti/stored-images-ms-go/internal/usecase/image"
	"github.com/hibiken/asynq"
)

// StartWorker starts an asynq worker processing image:probe tasks against db.
// It returns a function to gracefully shut down the worker.
func StartWorker(db *sql.DB, redisAddr string) func() {
	repo := mariadb.NewImageRepository(db)
	probeSvc := imageSvc.NewImageProber(repo, prober.NewHTTPProber(prober.Options{
		Timeout:  5 * time.Second,
		MaxBytes: 1 << 20,
		// the e2e image server runs on loopback
		AllowPrivateNetworks: true,
	}))

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeProbeImage, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseProbeImagePayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ProbeImageHandler(ctx, p, probeSvc)
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 2})
	if err := srv.Start(mux); err != nil {
		logger.Errorf(context.Background(), "worker failed to start: %v", err)
		return func() {}
	}

	return srv.Shutdown
}
