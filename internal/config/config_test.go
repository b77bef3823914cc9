// File path: internal/config/config_test.go
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riventa/pulsecheck/internal/taxonomy"
)

func TestMergeOverlaysNonZeroFields(t *testing.T) {
	base := Default()
	merged := base.Merge(Config{
		ChatModel: "gpt-4o-mini",
		Recovery:  Recovery{MaxAttempts: 5},
	})
	if merged.ChatModel != "gpt-4o-mini" {
		t.Fatalf("override not applied: %s", merged.ChatModel)
	}
	if merged.Recovery.MaxAttempts != 5 {
		t.Fatalf("recovery override not applied: %d", merged.Recovery.MaxAttempts)
	}
	if merged.OutputRoot != base.OutputRoot {
		t.Fatal("zero-value fields must not overwrite the base")
	}
	if merged.CostPer1KTokens != base.CostPer1KTokens {
		t.Fatal("zero cost must not overwrite the base")
	}
}

func TestLoadAppliesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	fileCfg := map[string]interface{}{
		"chat_model": "file-model",
		"recovery":   map[string]interface{}{"backoff": "250ms"},
	}
	data, err := json.Marshal(fileCfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PULSECHECK_CONFIG_FILE", path)
	t.Setenv("PULSECHECK_OUTPUT_ROOT", filepath.Join(dir, "out"))
	t.Setenv("PULSECHECK_MAX_RECOMMENDATIONS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ChatModel != "file-model" {
		t.Fatalf("file setting not applied: %s", cfg.ChatModel)
	}
	if cfg.OutputRoot != filepath.Join(dir, "out") {
		t.Fatalf("env setting not applied: %s", cfg.OutputRoot)
	}
	if cfg.MaxRecommendations != 7 {
		t.Fatalf("env override not applied: %d", cfg.MaxRecommendations)
	}
	if cfg.Recovery.Backoff != 250*time.Millisecond {
		t.Fatalf("backoff string not parsed: %s", cfg.Recovery.Backoff)
	}
	if len(cfg.Benchmarks) == 0 {
		t.Fatal("benchmarks must default when unset")
	}
}

func TestLoadRejectsBadEnvValues(t *testing.T) {
	t.Setenv("PULSECHECK_COST_PER_1K", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed cost")
	}
}

func TestLoadCustomBenchmarks(t *testing.T) {
	dir := t.TempDir()
	table := []taxonomy.Benchmark{
		{Category: "FIN", Metric: "gross margin", Median: 42, Unit: "%"},
	}
	data, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("marshal table: %v", err)
	}
	path := filepath.Join(dir, "benchmarks.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	t.Setenv("PULSECHECK_BENCHMARKS", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Benchmarks) != 1 || cfg.Benchmarks[0].Metric != "gross margin" {
		t.Fatalf("custom benchmarks not applied: %+v", cfg.Benchmarks)
	}
}
