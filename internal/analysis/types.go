// File path: internal/analysis/types.go

// Package analysis implements the AI-backed pipeline phases: cross-functional
// theme analysis, per-category deep dives with batch recovery, consolidation
// into the integrated model, and per-report bottom-line summaries.
package analysis

import "time"

// Report deliverable names. The content engines address fragments to these.
const (
	ReportExecutiveBrief  = "executive_brief"
	ReportOwners          = "owners_report"
	ReportComprehensive   = "comprehensive_report"
	ReportManagerDeepDive = "manager_deepdive"
)

// Reports returns the deliverable names in rendering order.
func Reports() []string {
	return []string{ReportExecutiveBrief, ReportOwners, ReportComprehensive, ReportManagerDeepDive}
}

// Metadata stamps an AI-backed phase output with provenance and accounting.
type Metadata struct {
	ProcessedAt time.Time `json:"processed_at"`
	ModelUsed   string    `json:"model_used,omitempty"`
	TokensUsed  int       `json:"tokens_used,omitempty"`
	Fallback    bool      `json:"fallback,omitempty"`
}

// CrossFunctionalAnalysis is one theme narrative spanning several categories.
// Its score is the rounded arithmetic mean of the contributing category
// scores, never a weighted mean.
type CrossFunctionalAnalysis struct {
	AnalysisType    string   `json:"analysis_type"`
	Categories      []string `json:"categories"`
	Score           int      `json:"score"`
	Summary         string   `json:"summary"`
	Findings        []string `json:"findings,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Recommendation is one ranked action inside a category deep dive.
type Recommendation struct {
	Action    string `json:"action"`
	Priority  string `json:"priority"`
	Timeframe string `json:"timeframe"`
	Impact    string `json:"impact"`
}

// BenchmarkComparison relates a company metric to its benchmark. Unknown
// marks fallback rows where no company value was available; their
// CompanyValue is zero by contract.
type BenchmarkComparison struct {
	Metric         string  `json:"metric"`
	CompanyValue   float64 `json:"company_value"`
	BenchmarkValue float64 `json:"benchmark_value"`
	Unit           string  `json:"unit,omitempty"`
	Unknown        bool    `json:"unknown,omitempty"`
}

// CategoryAnalysis is the SWOT-style deep dive for one category. The
// recommendation list is capped at construction time.
type CategoryAnalysis struct {
	CategoryCode        string                `json:"category_code"`
	Score               float64               `json:"score"`
	BenchmarkComparison string                `json:"benchmark_comparison"`
	ConfidenceLevel     string                `json:"confidence_level"`
	Strengths           []string              `json:"strengths,omitempty"`
	Weaknesses          []string              `json:"weaknesses,omitempty"`
	Opportunities       []string              `json:"opportunities,omitempty"`
	Threats             []string              `json:"threats,omitempty"`
	QuickWins           []string              `json:"quick_wins,omitempty"`
	Risks               []string              `json:"risks,omitempty"`
	Recommendations     []Recommendation      `json:"recommendations,omitempty"`
	KeyMetrics          map[string]float64    `json:"key_metrics,omitempty"`
	Benchmarks          []BenchmarkComparison `json:"benchmarks,omitempty"`
	Fallback            bool                  `json:"fallback,omitempty"`
}

// RecoveryStatus is the terminal status of one recovered unit of work.
type RecoveryStatus string

const (
	RecoveryOK       RecoveryStatus = "ok"
	RecoveryRetried  RecoveryStatus = "retried"
	RecoveryFallback RecoveryStatus = "fallback"
)

// RecoveryResult records how a category analysis call concluded. Write-once.
type RecoveryResult struct {
	CategoryCode string         `json:"category_code"`
	Status       RecoveryStatus `json:"status"`
	Attempts     int            `json:"attempts"`
	Errors       []string       `json:"errors,omitempty"`
}

// Phase1Output holds the cross-functional analyses for a submission.
type Phase1Output struct {
	SubmissionID string                    `json:"submission_id"`
	Analyses     []CrossFunctionalAnalysis `json:"analyses"`
	Metadata     Metadata                  `json:"metadata"`
}

// Phase15Output holds the per-category deep dives plus their recovery
// records. CategoryAnalyses follows taxonomy order, not completion order.
type Phase15Output struct {
	SubmissionID     string             `json:"submission_id"`
	CategoryAnalyses []CategoryAnalysis `json:"category_analyses"`
	Recoveries       []RecoveryResult   `json:"recoveries,omitempty"`
	Metadata         Metadata           `json:"metadata"`
}

// AttributedItem ties a narrative line back to the category it came from.
type AttributedItem struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// RankedRecommendation is a recommendation promoted into the integrated
// model's global ranking.
type RankedRecommendation struct {
	Recommendation
	Category string `json:"category"`
	Rank     int    `json:"rank"`
}

// IntegratedCategory merges score, theme, and deep-dive data for one
// category.
type IntegratedCategory struct {
	Code                string           `json:"code"`
	Name                string           `json:"name"`
	Chapter             string           `json:"chapter"`
	Score               float64          `json:"score"`
	BenchmarkComparison string           `json:"benchmark_comparison"`
	ThemeScores         map[string]int   `json:"theme_scores,omitempty"`
	Strengths           []string         `json:"strengths,omitempty"`
	Risks               []string         `json:"risks,omitempty"`
	QuickWins           []string         `json:"quick_wins,omitempty"`
	Recommendations     []Recommendation `json:"recommendations,omitempty"`
	Fallback            bool             `json:"fallback,omitempty"`
}

// IntegratedModel is the consolidated phase 4 structure feeding report
// rendering.
type IntegratedModel struct {
	SubmissionID       string                    `json:"submission_id"`
	CompanyName        string                    `json:"company_name"`
	OverallScore       float64                   `json:"overall_score"`
	ChapterScores      map[string]float64        `json:"chapter_scores"`
	Themes             []CrossFunctionalAnalysis `json:"themes"`
	Categories         []IntegratedCategory      `json:"categories"`
	TopRecommendations []RankedRecommendation    `json:"top_recommendations,omitempty"`
	QuickWins          []AttributedItem          `json:"quick_wins,omitempty"`
	KeyRisks           []AttributedItem          `json:"key_risks,omitempty"`
	Metadata           Metadata                  `json:"metadata"`
}

// ReportSummary is one bottom-line-up-front block for a target report.
type ReportSummary struct {
	Report    string `json:"report"`
	Headline  string `json:"headline"`
	Paragraph string `json:"paragraph"`
	Fallback  bool   `json:"fallback,omitempty"`
}

// SummarySet is the phase 4.5 output: one BLUF per deliverable.
type SummarySet struct {
	SubmissionID string          `json:"submission_id"`
	Summaries    []ReportSummary `json:"summaries"`
	Metadata     Metadata        `json:"metadata"`
}
