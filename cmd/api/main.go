// Command api runs the FloodWatch HTTP service: scenario assessment,
// assessment history, health, and metrics endpoints.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"floodwatch/internal/api/handlers"
	"floodwatch/internal/assessment"
	"floodwatch/internal/config"
	"floodwatch/internal/core"
	"floodwatch/internal/db"
	"floodwatch/internal/observability"
	"floodwatch/internal/response"
	"floodwatch/internal/scoring"
)

const shutdownGracePeriod = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("api terminated", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting floodwatch api",
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
		"persistence", cfg.PersistenceEnabled(),
	)

	// The feature-name list defines the model's input contract; without it no
	// backend can score anything, so its absence is fatal.
	featureOrder, err := scoring.LoadFeatureNames(cfg.Artifacts.Dir)
	if err != nil {
		return fmt.Errorf("load feature names: %w", err)
	}

	backend, usingSurrogate := scoring.NewBackend(cfg.Artifacts.Dir, featureOrder, logger)
	scorer, err := scoring.NewScorer(featureOrder, backend)
	if err != nil {
		return fmt.Errorf("build scorer: %w", err)
	}

	metrics := observability.NewMetrics()
	if usingSurrogate {
		metrics.SurrogateActive.Set(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		store assessment.Store
		pool  *pgxpool.Pool
		probe []core.HealthProbe
	)
	if cfg.PersistenceEnabled() {
		pool, err = newPool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		repo := db.NewAssessmentRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		store = repo
		probe = append(probe, databaseProbe{pool: pool})
	}
	probe = append(probe, backendProbe{surrogate: usingSurrogate})

	svc := assessment.NewService(scorer, response.NewEngine(), assessment.Options{
		Store:           store,
		HistoryCapacity: cfg.History.Capacity,
		PersistTimeout:  cfg.Database.PersistTimeout,
		Logger:          logger,
		Metrics:         metrics,
	})

	server, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}
	server.HealthProbes = probe

	assessmentHandler := handlers.NewAssessmentHandler(svc, server.Validator, logger)
	server.V1RouteRegistrars = append(server.V1RouteRegistrars, assessmentHandler.RegisterRoutes)
	server.MountRoutes()

	httpServer := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return server.Shutdown(shutdownCtx)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func newPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	poolCfg.MinConns = int32(cfg.Database.MinConns)
	poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// databaseProbe reports whether the assessment store is reachable.
type databaseProbe struct {
	pool *pgxpool.Pool
}

func (p databaseProbe) Name() string { return "database" }

func (p databaseProbe) Check(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// backendProbe reports which regression backend is serving scores. The
// surrogate is a healthy degraded mode, so the probe never fails; the
// component name tells operators which backend is active.
type backendProbe struct {
	surrogate bool
}

func (p backendProbe) Name() string {
	if p.surrogate {
		return "scoring_backend_surrogate"
	}
	return "scoring_backend_trained_model"
}

func (p backendProbe) Check(ctx context.Context) error {
	return nil
}
