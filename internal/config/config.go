// File path: internal/config/config.go

// Package config assembles the runtime configuration for the assessment
// pipeline. Values merge in order: compiled-in defaults, an optional JSON
// file named by PULSECHECK_CONFIG_FILE, then PULSECHECK_* environment
// variables. Benchmark tables and recovery tuning are injected here so tests
// and deployments can override them without code changes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/riventa/pulsecheck/internal/taxonomy"
)

// Recovery tunes the batch recovery controller.
type Recovery struct {
	MaxAttempts int `json:"max_attempts"`

	Backoff       time.Duration `json:"-"`
	BackoffString string        `json:"backoff"`

	Multiplier    float64 `json:"multiplier"`
	FallbackScore int     `json:"fallback_score"`
}

// Config is the full runtime configuration.
type Config struct {
	OutputRoot   string `json:"output_root"`
	DatabasePath string `json:"database_path"`

	ChatModel       string  `json:"chat_model"`
	CostPer1KTokens float64 `json:"cost_per_1k_tokens"`

	MaxRecommendations     int     `json:"max_recommendations"`
	MinConfidenceThreshold float64 `json:"min_confidence_threshold"`

	Recovery Recovery `json:"recovery"`

	Benchmarks []taxonomy.Benchmark `json:"benchmarks,omitempty"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		OutputRoot:             filepath.Join("data", "assessments"),
		DatabasePath:           filepath.Join("data", "pulsecheck.db"),
		ChatModel:              "gpt-4o",
		CostPer1KTokens:        0.005,
		MaxRecommendations:     5,
		MinConfidenceThreshold: 0.5,
		Recovery: Recovery{
			MaxAttempts:   3,
			Backoff:       2 * time.Second,
			Multiplier:    2,
			FallbackScore: 55,
		},
		Benchmarks: taxonomy.DefaultBenchmarks(),
	}
}

// Merge overlays non-zero override fields onto the receiver.
func (c Config) Merge(override Config) Config {
	result := c
	if strings.TrimSpace(override.OutputRoot) != "" {
		result.OutputRoot = strings.TrimSpace(override.OutputRoot)
	}
	if strings.TrimSpace(override.DatabasePath) != "" {
		result.DatabasePath = strings.TrimSpace(override.DatabasePath)
	}
	if strings.TrimSpace(override.ChatModel) != "" {
		result.ChatModel = strings.TrimSpace(override.ChatModel)
	}
	if override.CostPer1KTokens > 0 {
		result.CostPer1KTokens = override.CostPer1KTokens
	}
	if override.MaxRecommendations > 0 {
		result.MaxRecommendations = override.MaxRecommendations
	}
	if override.MinConfidenceThreshold > 0 {
		result.MinConfidenceThreshold = override.MinConfidenceThreshold
	}
	if override.Recovery.MaxAttempts > 0 {
		result.Recovery.MaxAttempts = override.Recovery.MaxAttempts
	}
	if override.Recovery.Backoff > 0 {
		result.Recovery.Backoff = override.Recovery.Backoff
	}
	if strings.TrimSpace(override.Recovery.BackoffString) != "" {
		result.Recovery.BackoffString = strings.TrimSpace(override.Recovery.BackoffString)
	}
	if override.Recovery.Multiplier > 0 {
		result.Recovery.Multiplier = override.Recovery.Multiplier
	}
	if override.Recovery.FallbackScore > 0 {
		result.Recovery.FallbackScore = override.Recovery.FallbackScore
	}
	if len(override.Benchmarks) > 0 {
		result.Benchmarks = append([]taxonomy.Benchmark(nil), override.Benchmarks...)
	}
	return result
}

// Load builds the effective configuration from defaults, the optional config
// file, and the environment.
func Load() (Config, error) {
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("PULSECHECK_CONFIG_FILE")); path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.Merge(fileCfg)
	}
	envCfg, err := loadEnv()
	if err != nil {
		return Config{}, err
	}
	cfg = cfg.Merge(envCfg)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Recovery.Backoff <= 0 && c.Recovery.BackoffString != "" {
		if parsed, err := time.ParseDuration(c.Recovery.BackoffString); err == nil {
			c.Recovery.Backoff = parsed
		}
	}
	if c.Recovery.Backoff <= 0 {
		c.Recovery.Backoff = 2 * time.Second
	}
	if c.Recovery.Multiplier < 1 {
		c.Recovery.Multiplier = 2
	}
	if len(c.Benchmarks) == 0 {
		c.Benchmarks = taxonomy.DefaultBenchmarks()
	}
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func loadEnv() (Config, error) {
	cfg := Config{}
	cfg.OutputRoot = strings.TrimSpace(os.Getenv("PULSECHECK_OUTPUT_ROOT"))
	cfg.DatabasePath = strings.TrimSpace(os.Getenv("PULSECHECK_DB_PATH"))
	cfg.ChatModel = strings.TrimSpace(os.Getenv("PULSECHECK_CHAT_MODEL"))
	if raw := strings.TrimSpace(os.Getenv("PULSECHECK_COST_PER_1K")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse PULSECHECK_COST_PER_1K: %w", err)
		}
		cfg.CostPer1KTokens = value
	}
	if raw := strings.TrimSpace(os.Getenv("PULSECHECK_MAX_RECOMMENDATIONS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse PULSECHECK_MAX_RECOMMENDATIONS: %w", err)
		}
		cfg.MaxRecommendations = value
	}
	if raw := strings.TrimSpace(os.Getenv("PULSECHECK_MIN_CONFIDENCE")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse PULSECHECK_MIN_CONFIDENCE: %w", err)
		}
		cfg.MinConfidenceThreshold = value
	}
	if raw := strings.TrimSpace(os.Getenv("PULSECHECK_RECOVERY_ATTEMPTS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse PULSECHECK_RECOVERY_ATTEMPTS: %w", err)
		}
		cfg.Recovery.MaxAttempts = value
	}
	if raw := strings.TrimSpace(os.Getenv("PULSECHECK_RECOVERY_BACKOFF")); raw != "" {
		cfg.Recovery.BackoffString = raw
		if parsed, err := time.ParseDuration(raw); err == nil {
			cfg.Recovery.Backoff = parsed
		}
	}
	if raw := strings.TrimSpace(os.Getenv("PULSECHECK_RECOVERY_MULTIPLIER")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse PULSECHECK_RECOVERY_MULTIPLIER: %w", err)
		}
		cfg.Recovery.Multiplier = value
	}
	if raw := strings.TrimSpace(os.Getenv("PULSECHECK_FALLBACK_SCORE")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse PULSECHECK_FALLBACK_SCORE: %w", err)
		}
		cfg.Recovery.FallbackScore = value
	}
	if path := strings.TrimSpace(os.Getenv("PULSECHECK_BENCHMARKS")); path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("read benchmarks: %w", err)
		}
		var table []taxonomy.Benchmark
		if err := json.Unmarshal(data, &table); err != nil {
			return Config{}, fmt.Errorf("parse benchmarks: %w", err)
		}
		cfg.Benchmarks = table
	}
	return cfg, nil
}
