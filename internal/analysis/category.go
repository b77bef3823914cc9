// File path: internal/analysis/category.go
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/riventa/pulsecheck/internal/common"
	"github.com/riventa/pulsecheck/internal/llm"
	"github.com/riventa/pulsecheck/internal/score"
	"github.com/riventa/pulsecheck/internal/taxonomy"
)

// CategoryAnalyzer runs phase 1.5: one SWOT deep dive per category, each
// wrapped in the recovery controller so a single bad category can never abort
// the phase.
type CategoryAnalyzer struct {
	provider           llm.Provider
	recovery           *RecoveryController
	maxRecommendations int
}

func NewCategoryAnalyzer(provider llm.Provider, recovery *RecoveryController, maxRecommendations int) *CategoryAnalyzer {
	if maxRecommendations <= 0 {
		maxRecommendations = 5
	}
	return &CategoryAnalyzer{provider: provider, recovery: recovery, maxRecommendations: maxRecommendations}
}

type categoryPayload struct {
	CategoryCode        string             `json:"categoryCode"`
	OverallScore        float64            `json:"overallScore"`
	BenchmarkComparison string             `json:"benchmarkComparison"`
	ConfidenceLevel     string             `json:"confidenceLevel"`
	Strengths           []string           `json:"strengths"`
	Weaknesses          []string           `json:"weaknesses"`
	Opportunities       []string           `json:"opportunities"`
	Threats             []string           `json:"threats"`
	QuickWins           []string           `json:"quickWins"`
	Risks               []string           `json:"risks"`
	Recommendations     []Recommendation   `json:"recommendations"`
	KeyMetrics          map[string]float64 `json:"keyMetrics"`
}

// Analyze produces one CategoryAnalysis per taxonomy category, in taxonomy
// order. Results are placed by index, so the ordering guarantee survives a
// concurrent reimplementation of the loop body.
func (a *CategoryAnalyzer) Analyze(ctx context.Context, phase0 score.Phase0Output, phase1 Phase1Output) (Phase15Output, error) {
	logger := common.Logger()
	categories := taxonomy.Categories()
	analyses := make([]CategoryAnalysis, len(categories))
	recoveries := make([]RecoveryResult, len(categories))
	var tokens atomic.Int64
	var model string

	for i, cat := range categories {
		cat := cat
		call := func(ctx context.Context) (*CategoryAnalysis, error) {
			prompt, err := BuildCategoryPrompt(cat, phase0, phase1.Analyses)
			if err != nil {
				return nil, fmt.Errorf("render prompt: %w", err)
			}
			completion, err := a.provider.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
			if err != nil {
				return nil, err
			}
			tokens.Add(int64(completion.TokensUsed))
			if completion.Model != "" {
				model = completion.Model
			}
			return a.parseCategory(completion.Content)
		}
		analysis, recovery := a.recovery.Run(ctx, cat.Code, call)
		analyses[i] = *analysis
		recoveries[i] = recovery
	}

	logger.Info("analysis: category deep-dive phase complete",
		"submission", phase0.SubmissionID, "categories", len(analyses), "tokens", tokens.Load())
	return Phase15Output{
		SubmissionID:     phase0.SubmissionID,
		CategoryAnalyses: analyses,
		Recoveries:       recoveries,
		Metadata:         Metadata{ProcessedAt: time.Now().UTC(), ModelUsed: model, TokensUsed: int(tokens.Load())},
	}, nil
}

// parseCategory extracts and validates one deep-dive reply. The
// recommendation cap applies after parsing: overflow entries are dropped,
// never merged or re-ranked.
func (a *CategoryAnalyzer) parseCategory(reply string) (*CategoryAnalysis, error) {
	raw, err := ExtractJSONObject(reply)
	if err != nil {
		return nil, err
	}
	var payload categoryPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parse reply: %w", err)
	}
	recommendations := payload.Recommendations
	if len(recommendations) > a.maxRecommendations {
		recommendations = recommendations[:a.maxRecommendations]
	}
	comparison := payload.BenchmarkComparison
	switch comparison {
	case "below", "at", "above":
	default:
		comparison = "at"
	}
	confidence := payload.ConfidenceLevel
	switch confidence {
	case "low", "medium", "high":
	default:
		confidence = "medium"
	}
	return &CategoryAnalysis{
		CategoryCode:        payload.CategoryCode,
		Score:               payload.OverallScore,
		BenchmarkComparison: comparison,
		ConfidenceLevel:     confidence,
		Strengths:           payload.Strengths,
		Weaknesses:          payload.Weaknesses,
		Opportunities:       payload.Opportunities,
		Threats:             payload.Threats,
		QuickWins:           payload.QuickWins,
		Risks:               payload.Risks,
		Recommendations:     recommendations,
		KeyMetrics:          payload.KeyMetrics,
	}, nil
}
