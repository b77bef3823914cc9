// File path: cmd/pulsecheck/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/riventa/pulsecheck/internal/api"
	"github.com/riventa/pulsecheck/internal/common"
	"github.com/riventa/pulsecheck/internal/config"
	"github.com/riventa/pulsecheck/internal/llm"
	"github.com/riventa/pulsecheck/internal/pipeline"
	"github.com/riventa/pulsecheck/internal/score"
	"github.com/riventa/pulsecheck/internal/store"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("pulsecheck: .env file not loaded", "error", err)
	} else {
		logger.Info("pulsecheck: environment loaded from .env")
	}

	addr := flag.String("addr", ":8082", "listen address for server mode")
	inputPath := flag.String("input", "", "questionnaire JSON for a one-shot run (skips server mode)")
	outputRoot := flag.String("out", "", "artifact output root (overrides configuration)")
	dbPath := flag.String("db", "", "SQLite database path (overrides configuration)")
	model := flag.String("model", "", "chat model name (overrides configuration)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("pulsecheck: configuration invalid", "error", err)
		os.Exit(1)
	}
	if strings.TrimSpace(*outputRoot) != "" {
		cfg.OutputRoot = *outputRoot
	}
	if strings.TrimSpace(*dbPath) != "" {
		cfg.DatabasePath = *dbPath
	}
	if strings.TrimSpace(*model) != "" {
		cfg.ChatModel = *model
	}

	provider := llm.NewProvider(cfg.ChatModel)
	logger.Info("pulsecheck: provider ready", "provider", provider.Name(), "model", cfg.ChatModel)

	var db *store.Store
	if strings.TrimSpace(cfg.DatabasePath) != "" {
		db, err = store.Open(cfg.DatabasePath)
		if err != nil {
			logger.Error("pulsecheck: database unavailable", "path", cfg.DatabasePath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	manager := pipeline.NewManager(cfg, provider, db)

	if strings.TrimSpace(*inputPath) != "" {
		if err := runOnce(manager, *inputPath); err != nil {
			logger.Error("pulsecheck: run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	server := api.NewServer(cfg, manager, db)
	logger.Info("pulsecheck: listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Error("pulsecheck: server stopped", "error", err)
		os.Exit(1)
	}
}

// runOnce executes the pipeline for one questionnaire file and prints
// phase progress to stderr. Artifacts land under the configured output
// root, including the final pipeline-state.json snapshot.
func runOnce(manager *pipeline.Manager, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var input score.QuestionnaireInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	if strings.TrimSpace(input.SubmissionID) == "" {
		input.SubmissionID = uuid.NewString()
	}

	manager.SetProgress(func(st pipeline.State) {
		fmt.Fprintf(os.Stderr, "[%s] phase=%s tokens=%d cost=$%.4f\n",
			st.Status, st.CurrentPhase, st.Metrics.TotalTokensUsed, st.Metrics.EstimatedCost)
	})

	final, err := manager.Run(context.Background(), input)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "completed submission %s: %d reports, %dms\n",
		final.SubmissionID, len(final.Reports), final.Metrics.ExecutionTimeMs)
	return nil
}
