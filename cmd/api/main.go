package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/stored-images-ms-go/internal/config"
	"github.com/fhuszti/stored-images-ms-go/internal/db"
	"github.com/fhuszti/stored-images-ms-go/internal/health"
	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/fhuszti/stored-images-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/stored-images-ms-go/internal/router"
	"github.com/fhuszti/stored-images-ms-go/internal/task"
	"github.com/go-chi/chi/v5"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	imageRepo := mariadb.NewImageRepository(database.DB)
	checkers := []port.HealthChecker{health.NewMariaDBChecker(database.DB)}
	var dispatcher port.TaskDispatcher
	if cfg.RedisAddr != "" {
		d := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		defer func() {
			if err := d.Close(); err != nil {
				logger.Warnf(ctx, "Task client close error: %v", err)
			}
		}()
		dispatcher = d
		rc := health.NewRedisChecker(cfg.RedisAddr, cfg.RedisPassword)
		defer func() {
			if err := rc.Close(); err != nil {
				logger.Warnf(ctx, "Redis close error: %v", err)
			}
		}()
		checkers = append(checkers, rc)
		logger.Info(ctx, "✅  Redis task queue enabled")
	} else {
		dispatcher = task.NewNoopDispatcher()
		logger.Warn(ctx, "⚠️  Redis not configured, image probing is disabled")
	}
	if cfg.JWTPublicKey == "" {
		logger.Warn(ctx, "⚠️  JWT_PUBLIC_KEY not set, requests are not authenticated")
	} else if len(cfg.JWTWriteRoles) > 0 {
		logger.Infof(ctx, "writes restricted to roles %v", cfg.JWTWriteRoles)
	}

	svc := router.NewServices(imageRepo, dispatcher, cfg.DefaultListLimit, cfg.MaxListLimit)
	r := router.New(ctx, router.Options{
		APIPrefix:    cfg.APIPrefix,
		JWTPublicKey: cfg.JWTPublicKey,
		JWTIssuer:    cfg.JWTIssuer,
		JWTAudience:  cfg.JWTAudience,
		WriteRoles:   cfg.JWTWriteRoles,
	}, svc, checkers...)

	listenRouter(ctx, r, cfg, database)
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

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof(ctx, "🚀 API listening on %s under %s", srv.Addr, cfg.APIPrefix)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
