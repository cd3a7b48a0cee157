// Command assess scores a single flood scenario from a JSON file and prints
// the resulting assessment. It runs the same pipeline as the API, including
// best-effort persistence when a database is configured.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"floodwatch/internal/assessment"
	"floodwatch/internal/config"
	"floodwatch/internal/core"
	"floodwatch/internal/db"
	"floodwatch/internal/response"
	"floodwatch/internal/scoring"
	"floodwatch/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "assess:", err)
		os.Exit(1)
	}
}

func run() error {
	inputFile := flag.String("input-file", "", "path to a scenario JSON file (reads stdin when omitted)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Keep structured logs off the primary output stream so the assessment
	// JSON stays pipeable.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	req, err := readScenario(*inputFile)
	if err != nil {
		return err
	}
	if err := core.NewValidator(logger).ValidateStruct(req); err != nil {
		return err
	}

	featureOrder, err := scoring.LoadFeatureNames(cfg.Artifacts.Dir)
	if err != nil {
		return fmt.Errorf("load feature names: %w", err)
	}
	backend, _ := scoring.NewBackend(cfg.Artifacts.Dir, featureOrder, logger)
	scorer, err := scoring.NewScorer(featureOrder, backend)
	if err != nil {
		return fmt.Errorf("build scorer: %w", err)
	}

	ctx := context.Background()

	var store assessment.Store
	if cfg.PersistenceEnabled() {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		repo := db.NewAssessmentRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		store = repo
	}

	svc := assessment.NewService(scorer, response.NewEngine(), assessment.Options{
		Store:           store,
		HistoryCapacity: cfg.History.Capacity,
		PersistTimeout:  cfg.Database.PersistTimeout,
		Logger:          logger,
	})

	result, err := svc.Assess(ctx, req)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result.Payload(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func readScenario(path string) (*types.ScenarioRequest, error) {
	var raw []byte
	var err error
	if path == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var req types.ScenarioRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidJSON, "scenario input is not valid JSON", err)
	}
	return &req, nil
}
