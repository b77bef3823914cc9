// File path: internal/analysis/recovery_test.go
package analysis

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestController(cfg RecoveryConfig) (*RecoveryController, *[]time.Duration) {
	ctrl := NewRecoveryController(cfg)
	var sleeps []time.Duration
	ctrl.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return ctrl, &sleeps
}

func TestRecoveryFirstAttemptSuccess(t *testing.T) {
	ctrl, sleeps := newTestController(RecoveryConfig{MaxAttempts: 3})
	analysis, result := ctrl.Run(context.Background(), "FIN", func(context.Context) (*CategoryAnalysis, error) {
		return &CategoryAnalysis{CategoryCode: "FIN", Score: 72}, nil
	})
	if result.Status != RecoveryOK {
		t.Fatalf("expected ok status, got %s", result.Status)
	}
	if result.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", result.Attempts)
	}
	if analysis.Fallback {
		t.Fatal("successful analysis must not be flagged as fallback")
	}
	if len(*sleeps) != 0 {
		t.Fatalf("no backoff expected, slept %d times", len(*sleeps))
	}
}

func TestRecoveryRetriesWithGrowingBackoff(t *testing.T) {
	ctrl, sleeps := newTestController(RecoveryConfig{
		MaxAttempts: 3,
		Backoff:     100 * time.Millisecond,
		Multiplier:  2,
	})
	calls := 0
	analysis, result := ctrl.Run(context.Background(), "OPS", func(context.Context) (*CategoryAnalysis, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("transient failure")
		}
		return &CategoryAnalysis{CategoryCode: "OPS", Score: 64}, nil
	})
	if result.Status != RecoveryRetried {
		t.Fatalf("expected retried status, got %s", result.Status)
	}
	if result.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", result.Attempts)
	}
	if analysis.CategoryCode != "OPS" {
		t.Fatalf("unexpected category %s", analysis.CategoryCode)
	}
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(*sleeps) != len(want) {
		t.Fatalf("expected %d sleeps, got %d", len(want), len(*sleeps))
	}
	for i, d := range want {
		if (*sleeps)[i] != d {
			t.Fatalf("sleep %d: expected %s, got %s", i, d, (*sleeps)[i])
		}
	}
}

func TestRecoveryExhaustionProducesFallback(t *testing.T) {
	ctrl, _ := newTestController(RecoveryConfig{MaxAttempts: 3, FallbackScore: 55})
	analysis, result := ctrl.Run(context.Background(), "TEC", func(context.Context) (*CategoryAnalysis, error) {
		return nil, errors.New("model unavailable")
	})
	if result.Status != RecoveryFallback {
		t.Fatalf("expected fallback status, got %s", result.Status)
	}
	if result.Attempts != 3 {
		t.Fatalf("expected attempts to equal max, got %d", result.Attempts)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected one error per attempt, got %d", len(result.Errors))
	}
	if !analysis.Fallback {
		t.Fatal("fallback analysis must be flagged")
	}
	if analysis.Score != 55 {
		t.Fatalf("expected fallback score 55, got %.1f", analysis.Score)
	}
	if analysis.ConfidenceLevel != "low" {
		t.Fatalf("expected low confidence, got %s", analysis.ConfidenceLevel)
	}
	if len(analysis.Benchmarks) == 0 || len(analysis.Benchmarks) > 3 {
		t.Fatalf("expected 1-3 benchmark rows, got %d", len(analysis.Benchmarks))
	}
	for _, b := range analysis.Benchmarks {
		if b.CompanyValue != 0 || !b.Unknown {
			t.Fatalf("fallback benchmark must carry zero company value and unknown flag: %+v", b)
		}
	}
}

func TestRecoveryValidationFailureCountsAsAttempt(t *testing.T) {
	ctrl, _ := newTestController(RecoveryConfig{MaxAttempts: 2})
	_, result := ctrl.Run(context.Background(), "HRM", func(context.Context) (*CategoryAnalysis, error) {
		return &CategoryAnalysis{CategoryCode: "HRM", Score: 180}, nil
	})
	if result.Status != RecoveryFallback {
		t.Fatalf("out-of-range scores must exhaust into fallback, got %s", result.Status)
	}
}

func TestRecoveryCanceledContextBreaksToFallback(t *testing.T) {
	ctrl := NewRecoveryController(RecoveryConfig{MaxAttempts: 3, Backoff: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, result := ctrl.Run(ctx, "LDR", func(context.Context) (*CategoryAnalysis, error) {
		return nil, errors.New("boom")
	})
	if result.Status != RecoveryFallback {
		t.Fatalf("expected fallback after cancellation, got %s", result.Status)
	}
}
