// File path: internal/analysis/crossfunctional.go
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/riventa/pulsecheck/internal/common"
	"github.com/riventa/pulsecheck/internal/llm"
	"github.com/riventa/pulsecheck/internal/score"
	"github.com/riventa/pulsecheck/internal/taxonomy"
)

// CrossFunctionalAnalyzer runs phase 1: one narrative per fixed theme. There
// is deliberately no fallback path here: a theme that cannot be analyzed
// aborts the phase.
type CrossFunctionalAnalyzer struct {
	provider llm.Provider
}

func NewCrossFunctionalAnalyzer(provider llm.Provider) *CrossFunctionalAnalyzer {
	return &CrossFunctionalAnalyzer{provider: provider}
}

type crossFunctionalPayload struct {
	AnalysisType    string   `json:"analysisType"`
	Summary         string   `json:"summary"`
	Findings        []string `json:"findings"`
	Recommendations []string `json:"recommendations"`
}

// Analyze produces one CrossFunctionalAnalysis per theme, in canonical theme
// order.
func (a *CrossFunctionalAnalyzer) Analyze(ctx context.Context, phase0 score.Phase0Output) (Phase1Output, error) {
	logger := common.Logger()
	themes := taxonomy.Themes()
	analyses := make([]CrossFunctionalAnalysis, 0, len(themes))
	var tokens int
	var model string

	for _, theme := range themes {
		prompt, err := BuildCrossFunctionalPrompt(theme, phase0)
		if err != nil {
			return Phase1Output{}, fmt.Errorf("render prompt for theme %s: %w", theme.Code, err)
		}
		completion, err := a.provider.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
		if err != nil {
			return Phase1Output{}, fmt.Errorf("theme %s analysis: %w", theme.Code, err)
		}
		tokens += completion.TokensUsed
		if completion.Model != "" {
			model = completion.Model
		}
		payload, err := parseCrossFunctional(completion.Content)
		if err != nil {
			return Phase1Output{}, fmt.Errorf("theme %s analysis: %w", theme.Code, err)
		}
		analyses = append(analyses, CrossFunctionalAnalysis{
			AnalysisType:    theme.Code,
			Categories:      append([]string(nil), theme.Categories...),
			Score:           themeScore(theme, phase0.CategoryScores),
			Summary:         payload.Summary,
			Findings:        payload.Findings,
			Recommendations: payload.Recommendations,
		})
		logger.Debug("analysis: theme complete", "theme", theme.Code, "submission", phase0.SubmissionID)
	}

	logger.Info("analysis: cross-functional phase complete",
		"submission", phase0.SubmissionID, "themes", len(analyses), "tokens", tokens)
	return Phase1Output{
		SubmissionID: phase0.SubmissionID,
		Analyses:     analyses,
		Metadata:     Metadata{ProcessedAt: time.Now().UTC(), ModelUsed: model, TokensUsed: tokens},
	}, nil
}

func parseCrossFunctional(reply string) (crossFunctionalPayload, error) {
	raw, err := ExtractJSONObject(reply)
	if err != nil {
		return crossFunctionalPayload{}, err
	}
	var payload crossFunctionalPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return crossFunctionalPayload{}, fmt.Errorf("parse reply: %w", err)
	}
	if strings.TrimSpace(payload.Summary) == "" {
		return crossFunctionalPayload{}, fmt.Errorf("reply missing summary")
	}
	return payload, nil
}

// themeScore is the rounded arithmetic mean of the contributing category
// scores. Per-question weights do not participate here.
func themeScore(theme taxonomy.Theme, categoryScores map[string]float64) int {
	var sum float64
	var count int
	for _, code := range theme.Categories {
		if value, ok := categoryScores[code]; ok {
			sum += value
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(sum / float64(count)))
}
