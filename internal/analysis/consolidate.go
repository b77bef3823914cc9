// File path: internal/analysis/consolidate.go
package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/riventa/pulsecheck/internal/common"
	"github.com/riventa/pulsecheck/internal/score"
	"github.com/riventa/pulsecheck/internal/taxonomy"
)

const (
	maxTopRecommendations = 8
	maxAttributedItems    = 6
)

// Consolidate runs phase 4: merge the score, theme, and deep-dive outputs
// into the integrated model that feeds report rendering. Pure data fold, no
// suspension points.
func Consolidate(phase0 score.Phase0Output, phase1 Phase1Output, phase15 Phase15Output) IntegratedModel {
	byCode := make(map[string]CategoryAnalysis, len(phase15.CategoryAnalyses))
	for _, analysis := range phase15.CategoryAnalyses {
		byCode[strings.ToUpper(strings.TrimSpace(analysis.CategoryCode))] = analysis
	}
	themeScores := make(map[string]map[string]int)
	for _, theme := range phase1.Analyses {
		for _, code := range theme.Categories {
			if themeScores[code] == nil {
				themeScores[code] = make(map[string]int)
			}
			themeScores[code][theme.AnalysisType] = theme.Score
		}
	}

	categories := make([]IntegratedCategory, 0, len(taxonomy.Categories()))
	var quickWins, keyRisks []AttributedItem
	var ranked []RankedRecommendation
	anyFallback := false

	for _, cat := range taxonomy.Categories() {
		analysis, ok := byCode[cat.Code]
		if !ok {
			continue
		}
		if analysis.Fallback {
			anyFallback = true
		}
		catScore := analysis.Score
		if normalized, ok := phase0.CategoryScores[cat.Code]; ok {
			// The normalized score is authoritative; the model's own figure
			// only stands in when phase 0 had no responses for the category.
			catScore = normalized
		}
		categories = append(categories, IntegratedCategory{
			Code:                cat.Code,
			Name:                cat.Name,
			Chapter:             cat.Chapter,
			Score:               catScore,
			BenchmarkComparison: analysis.BenchmarkComparison,
			ThemeScores:         themeScores[cat.Code],
			Strengths:           analysis.Strengths,
			Risks:               analysis.Risks,
			QuickWins:           analysis.QuickWins,
			Recommendations:     analysis.Recommendations,
			Fallback:            analysis.Fallback,
		})
		for _, win := range analysis.QuickWins {
			quickWins = append(quickWins, AttributedItem{Category: cat.Code, Text: win})
		}
		for _, risk := range analysis.Risks {
			keyRisks = append(keyRisks, AttributedItem{Category: cat.Code, Text: risk})
		}
		for _, rec := range analysis.Recommendations {
			ranked = append(ranked, RankedRecommendation{Recommendation: rec, Category: cat.Code})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		left := priorityRank(ranked[i].Priority)*10 + impactRank(ranked[i].Impact)
		right := priorityRank(ranked[j].Priority)*10 + impactRank(ranked[j].Impact)
		return left > right
	})
	if len(ranked) > maxTopRecommendations {
		ranked = ranked[:maxTopRecommendations]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	if len(quickWins) > maxAttributedItems {
		quickWins = quickWins[:maxAttributedItems]
	}
	if len(keyRisks) > maxAttributedItems {
		keyRisks = keyRisks[:maxAttributedItems]
	}

	common.Logger().Info("analysis: consolidation complete",
		"submission", phase0.SubmissionID,
		"categories", len(categories),
		"recommendations", len(ranked),
		"fallback", anyFallback)

	return IntegratedModel{
		SubmissionID:       phase0.SubmissionID,
		CompanyName:        phase0.Business.CompanyName,
		OverallScore:       phase0.OverallScore,
		ChapterScores:      phase0.ChapterScores,
		Themes:             phase1.Analyses,
		Categories:         categories,
		TopRecommendations: ranked,
		QuickWins:          quickWins,
		KeyRisks:           keyRisks,
		Metadata:           Metadata{ProcessedAt: time.Now().UTC(), Fallback: anyFallback},
	}
}

func priorityRank(priority string) int {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	default:
		return 0
	}
}

func impactRank(impact string) int {
	switch strings.ToLower(strings.TrimSpace(impact)) {
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	default:
		return 0
	}
}
