// File path: internal/analysis/recovery.go
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riventa/pulsecheck/internal/common"
	"github.com/riventa/pulsecheck/internal/taxonomy"
)

const maxFallbackBenchmarks = 3

// RecoveryConfig tunes the batch recovery controller. All values are
// injected; the zero value is corrected to safe defaults.
type RecoveryConfig struct {
	MaxAttempts   int
	Backoff       time.Duration
	Multiplier    float64
	FallbackScore int
	Benchmarks    []taxonomy.Benchmark
}

func (c RecoveryConfig) withDefaults() RecoveryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.Backoff <= 0 {
		c.Backoff = 2 * time.Second
	}
	if c.Multiplier < 1 {
		c.Multiplier = 2
	}
	if c.FallbackScore <= 0 {
		c.FallbackScore = 55
	}
	if len(c.Benchmarks) == 0 {
		c.Benchmarks = taxonomy.DefaultBenchmarks()
	}
	return c
}

// RecoveryController wraps a single narrative-generation call with bounded
// retry plus exponential backoff, and synthesizes a benchmark-based fallback
// when retries exhaust. Failure is absorbed at the unit level: callers always
// receive a well-typed CategoryAnalysis.
type RecoveryController struct {
	cfg   RecoveryConfig
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRecoveryController builds a controller with a context-aware sleeper.
func NewRecoveryController(cfg RecoveryConfig) *RecoveryController {
	return &RecoveryController{
		cfg: cfg.withDefaults(),
		sleep: func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
}

// Run executes call up to MaxAttempts times. Each returned analysis is
// structurally validated (non-empty category code, numeric overall score in
// range); a validation failure counts as an attempt failure. After the final
// failure the benchmark fallback is returned instead of an error.
func (r *RecoveryController) Run(ctx context.Context, categoryCode string, call func(context.Context) (*CategoryAnalysis, error)) (*CategoryAnalysis, RecoveryResult) {
	logger := common.Logger()
	result := RecoveryResult{CategoryCode: categoryCode}
	backoff := r.cfg.Backoff

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		result.Attempts = attempt
		analysis, err := call(ctx)
		if err == nil {
			err = validateAnalysis(analysis)
		}
		if err == nil {
			if attempt == 1 {
				result.Status = RecoveryOK
			} else {
				result.Status = RecoveryRetried
				logger.Info("recovery: category analysis recovered", "category", categoryCode, "attempts", attempt)
			}
			return analysis, result
		}
		result.Errors = append(result.Errors, err.Error())
		logger.Warn("recovery: category analysis attempt failed",
			"category", categoryCode, "attempt", attempt, "max", r.cfg.MaxAttempts, "error", err)
		if attempt < r.cfg.MaxAttempts {
			if sleepErr := r.sleep(ctx, backoff); sleepErr != nil {
				result.Errors = append(result.Errors, sleepErr.Error())
				break
			}
			backoff = time.Duration(float64(backoff) * r.cfg.Multiplier)
		}
	}

	result.Attempts = r.cfg.MaxAttempts
	result.Status = RecoveryFallback
	logger.Error("recovery: retries exhausted, synthesizing benchmark fallback", "category", categoryCode)
	return r.fallbackAnalysis(categoryCode), result
}

func validateAnalysis(a *CategoryAnalysis) error {
	if a == nil {
		return fmt.Errorf("analysis missing")
	}
	if strings.TrimSpace(a.CategoryCode) == "" {
		return fmt.Errorf("analysis missing category code")
	}
	if a.Score < 0 || a.Score > 100 {
		return fmt.Errorf("analysis score %.1f out of range", a.Score)
	}
	return nil
}

// fallbackAnalysis builds the benchmark-only placeholder result. Company
// values are unknown, so comparisons carry a zero CompanyValue and the
// Unknown flag.
func (r *RecoveryController) fallbackAnalysis(categoryCode string) *CategoryAnalysis {
	comparisons := make([]BenchmarkComparison, 0, maxFallbackBenchmarks)
	for _, bench := range taxonomy.BenchmarksFor(r.cfg.Benchmarks, categoryCode) {
		if len(comparisons) == maxFallbackBenchmarks {
			break
		}
		comparisons = append(comparisons, BenchmarkComparison{
			Metric:         bench.Metric,
			CompanyValue:   0,
			BenchmarkValue: bench.Median,
			Unit:           bench.Unit,
			Unknown:        true,
		})
	}
	return &CategoryAnalysis{
		CategoryCode:        categoryCode,
		Score:               float64(r.cfg.FallbackScore),
		BenchmarkComparison: "at",
		ConfidenceLevel:     "low",
		Strengths:           []string{"Benchmark-only placeholder: no company-specific strengths could be analyzed for this category."},
		Weaknesses:          []string{"Benchmark-only placeholder: no company-specific weaknesses could be analyzed for this category."},
		QuickWins:           []string{"Benchmark-only placeholder: review this category against the benchmark figures below."},
		Risks:               []string{"Benchmark-only placeholder: analysis for this category could not be generated; treat its score as indicative only."},
		Benchmarks:          comparisons,
		Fallback:            true,
	}
}
