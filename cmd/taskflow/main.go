package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskflow-hq/taskflow/internal/app"
	"github.com/taskflow-hq/taskflow/internal/auth"
	"github.com/taskflow-hq/taskflow/internal/observability"
	"github.com/taskflow-hq/taskflow/internal/platform/kv"
	"github.com/taskflow-hq/taskflow/internal/projects"
	"github.com/taskflow-hq/taskflow/internal/store"
	"github.com/taskflow-hq/taskflow/internal/tasks"
	"github.com/taskflow-hq/taskflow/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	metrics := observability.NewMetrics()

	seed := store.DefaultSeed()

	// Backend selection happens exactly once per process lifetime.
	var backend kv.Backend
	if cfg.UseRemoteBackend() {
		backend = kv.NewRedis(cfg.RedisAddr, seed.Payload(), logger, metrics.Registerer())
	} else {
		backend = kv.NewMemory(seed.Payload())
	}
	logger.Info("persistence backend selected", slog.String("backend", backend.Name()))

	st := store.New(ctx, backend, seed, logger)

	tokenManager := auth.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL)
	authHandler := auth.NewHandler(logger, auth.NewService(st), tokenManager)
	projectsHandler := projects.NewHandler(logger, projects.NewService(st))
	tasksHandler := tasks.NewHandler(logger, tasks.NewService(st))
	usersHandler := users.NewHandler(logger, users.NewService(st))

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		TokenManager:    tokenManager,
		AuthHandler:     authHandler,
		ProjectsHandler: projectsHandler,
		TasksHandler:    tasksHandler,
		UsersHandler:    usersHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
}
