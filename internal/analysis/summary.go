// File path: internal/analysis/summary.go
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/riventa/pulsecheck/internal/common"
	"github.com/riventa/pulsecheck/internal/llm"
)

// Summarizer runs phase 4.5: one bottom-line-up-front block per target
// report. A failed BLUF call degrades to a deterministic summary built from
// the integrated model; some bottom line always ships.
type Summarizer struct {
	provider llm.Provider
}

func NewSummarizer(provider llm.Provider) *Summarizer {
	return &Summarizer{provider: provider}
}

type blufPayload struct {
	Report    string `json:"report"`
	Headline  string `json:"headline"`
	Paragraph string `json:"paragraph"`
}

// GenerateSummaries produces the SummarySet for all deliverables, in
// rendering order.
func (s *Summarizer) GenerateSummaries(ctx context.Context, model IntegratedModel) SummarySet {
	logger := common.Logger()
	reports := Reports()
	summaries := make([]ReportSummary, 0, len(reports))
	var tokens int
	var modelName string
	anyFallback := false

	for _, report := range reports {
		summary, completion, err := s.generateOne(ctx, report, model)
		if completion != nil {
			tokens += completion.TokensUsed
			if completion.Model != "" {
				modelName = completion.Model
			}
		}
		if err != nil {
			logger.Warn("analysis: BLUF generation failed, using deterministic summary", "report", report, "error", err)
			summary = deterministicSummary(report, model)
			anyFallback = true
		}
		summaries = append(summaries, summary)
	}

	logger.Info("analysis: summary phase complete",
		"submission", model.SubmissionID, "summaries", len(summaries), "tokens", tokens)
	return SummarySet{
		SubmissionID: model.SubmissionID,
		Summaries:    summaries,
		Metadata:     Metadata{ProcessedAt: time.Now().UTC(), ModelUsed: modelName, TokensUsed: tokens, Fallback: anyFallback},
	}
}

func (s *Summarizer) generateOne(ctx context.Context, report string, model IntegratedModel) (ReportSummary, *llm.Completion, error) {
	prompt, err := BuildSummaryPrompt(report, model)
	if err != nil {
		return ReportSummary{}, nil, fmt.Errorf("render prompt: %w", err)
	}
	completion, err := s.provider.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return ReportSummary{}, nil, err
	}
	raw, err := ExtractJSONObject(completion.Content)
	if err != nil {
		return ReportSummary{}, &completion, err
	}
	var payload blufPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ReportSummary{}, &completion, fmt.Errorf("parse reply: %w", err)
	}
	if strings.TrimSpace(payload.Headline) == "" || strings.TrimSpace(payload.Paragraph) == "" {
		return ReportSummary{}, &completion, fmt.Errorf("reply missing headline or paragraph")
	}
	return ReportSummary{Report: report, Headline: payload.Headline, Paragraph: payload.Paragraph}, &completion, nil
}

// deterministicSummary synthesizes a BLUF from scores alone. Flat prose, no
// model involvement, flagged with fallback provenance.
func deterministicSummary(report string, model IntegratedModel) ReportSummary {
	standing := "in line with"
	switch {
	case model.OverallScore >= 70:
		standing = "ahead of"
	case model.OverallScore < 45:
		standing = "behind"
	}
	var weakest *IntegratedCategory
	for i := range model.Categories {
		if weakest == nil || model.Categories[i].Score < weakest.Score {
			weakest = &model.Categories[i]
		}
	}
	headline := fmt.Sprintf("Overall operational health score: %.0f of 100", model.OverallScore)
	paragraph := fmt.Sprintf("The business scores %.0f overall, %s typical small-business benchmarks.", model.OverallScore, standing)
	if weakest != nil {
		paragraph += fmt.Sprintf(" %s is the weakest area at %.0f and deserves first attention.", weakest.Name, weakest.Score)
	}
	if len(model.TopRecommendations) > 0 {
		paragraph += fmt.Sprintf(" Leading recommendation: %s.", strings.TrimRight(model.TopRecommendations[0].Action, "."))
	}
	return ReportSummary{Report: report, Headline: headline, Paragraph: paragraph, Fallback: true}
}
