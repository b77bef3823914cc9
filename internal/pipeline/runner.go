// File path: internal/pipeline/runner.go
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/riventa/pulsecheck/internal/analysis"
	"github.com/riventa/pulsecheck/internal/common"
	"github.com/riventa/pulsecheck/internal/content"
	"github.com/riventa/pulsecheck/internal/report"
	"github.com/riventa/pulsecheck/internal/score"
	"github.com/riventa/pulsecheck/internal/store"
)

// runPipeline drives one submission through every phase. Each phase
// persists its artifact before the run advances, so a failed run leaves
// every completed phase's output on disk.
func (m *Manager) runPipeline(ctx context.Context, id string, input score.QuestionnaireInput) error {
	logger := common.Logger()
	root := m.cfg.OutputRoot

	if err := m.setPhase(id, PhaseScoring); err != nil {
		return err
	}
	normalizer := score.NewNormalizer(score.DefaultQuestions())
	phase0, err := normalizer.Normalize(input)
	if err != nil {
		err = fmt.Errorf("scoring: %w", err)
		m.failPipeline(id, PhaseScoring, err)
		return err
	}
	if err := writeArtifact(root, id, "phase0/normalized-scores.json", phase0); err != nil {
		m.failPipeline(id, PhaseScoring, err)
		return err
	}
	logger.Info("pipeline: scoring complete", "submission", id, "overall", phase0.OverallScore)

	if err := m.setPhase(id, PhaseCrossFunctional); err != nil {
		return err
	}
	crossFn := analysis.NewCrossFunctionalAnalyzer(m.provider)
	phase1, err := crossFn.Analyze(ctx, phase0)
	if err != nil {
		err = fmt.Errorf("cross-functional analysis: %w", err)
		m.failPipeline(id, PhaseCrossFunctional, err)
		return err
	}
	m.addMetrics(id, int64(phase1.Metadata.TokensUsed))
	if err := writeArtifact(root, id, "phase1/cross-functional.json", phase1); err != nil {
		m.failPipeline(id, PhaseCrossFunctional, err)
		return err
	}

	if err := m.setPhase(id, PhaseCategoryDive); err != nil {
		return err
	}
	recovery := analysis.NewRecoveryController(analysis.RecoveryConfig{
		MaxAttempts:   m.cfg.Recovery.MaxAttempts,
		Backoff:       m.cfg.Recovery.Backoff,
		Multiplier:    m.cfg.Recovery.Multiplier,
		FallbackScore: m.cfg.Recovery.FallbackScore,
		Benchmarks:    m.cfg.Benchmarks,
	})
	deepDive := analysis.NewCategoryAnalyzer(m.provider, recovery, m.cfg.MaxRecommendations)
	phase15, err := deepDive.Analyze(ctx, phase0, phase1)
	if err != nil {
		err = fmt.Errorf("category analysis: %w", err)
		m.failPipeline(id, PhaseCategoryDive, err)
		return err
	}
	m.addMetrics(id, int64(phase15.Metadata.TokensUsed))
	for _, ca := range phase15.CategoryAnalyses {
		name := fmt.Sprintf("phase1_5/%s-analysis.json", strings.ToLower(ca.CategoryCode))
		if err := writeArtifact(root, id, name, ca); err != nil {
			m.failPipeline(id, PhaseCategoryDive, err)
			return err
		}
	}
	if err := writeArtifact(root, id, "phase1_5/recovery-report.json", phase15.Recoveries); err != nil {
		m.failPipeline(id, PhaseCategoryDive, err)
		return err
	}
	m.persistRecoveries(id, phase15.Recoveries)

	if err := m.setPhase(id, PhaseConsolidation); err != nil {
		return err
	}
	model := analysis.Consolidate(phase0, phase1, phase15)
	if err := writeArtifact(root, id, "phase4/integrated-model.json", model); err != nil {
		m.failPipeline(id, PhaseConsolidation, err)
		return err
	}

	if err := m.setPhase(id, PhaseSummaries); err != nil {
		return err
	}
	summarizer := analysis.NewSummarizer(m.provider)
	summaries := summarizer.GenerateSummaries(ctx, model)
	m.addMetrics(id, int64(summaries.Metadata.TokensUsed))
	if err := writeArtifact(root, id, "phase4_5/summaries.json", summaries); err != nil {
		m.failPipeline(id, PhaseSummaries, err)
		return err
	}

	if err := m.setPhase(id, PhaseRendering); err != nil {
		return err
	}
	rendered, err := report.Render(model, summaries)
	if err != nil {
		err = fmt.Errorf("report rendering: %w", err)
		m.failPipeline(id, PhaseRendering, err)
		return err
	}
	enriched, manifest, err := content.EnrichReports(rendered, m.cfg.MinConfidenceThreshold)
	if err != nil {
		err = fmt.Errorf("report enrichment: %w", err)
		m.failPipeline(id, PhaseRendering, err)
		return err
	}
	rendered = enriched
	if err := writeArtifact(root, id, "phase5/content-manifest.json", manifest); err != nil {
		m.failPipeline(id, PhaseRendering, err)
		return err
	}
	reports := make([]string, 0, len(rendered))
	for _, name := range analysis.Reports() {
		html, ok := rendered[name]
		if !ok {
			continue
		}
		if err := writeRawArtifact(root, id, "phase5/"+report.FileName(name), []byte(html)); err != nil {
			m.failPipeline(id, PhaseRendering, err)
			return err
		}
		reports = append(reports, name)
	}

	m.completePipeline(id, reports)
	return nil
}

func (m *Manager) persistRecoveries(id string, results []analysis.RecoveryResult) {
	if m.db == nil {
		return
	}
	recs := make([]store.RecoveryRecord, 0, len(results))
	for _, r := range results {
		recs = append(recs, store.RecoveryRecord{
			SubmissionID: id,
			Category:     r.CategoryCode,
			Status:       string(r.Status),
			Attempts:     r.Attempts,
			Detail:       strings.Join(r.Errors, "; "),
		})
	}
	if err := m.db.SaveRecoveries(context.Background(), recs); err != nil {
		common.Logger().Warn("pipeline: recovery records not persisted", "submission", id, "error", err)
	}
}
