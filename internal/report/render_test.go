// File path: internal/report/render_test.go
package report

import (
	"strings"
	"testing"

	"github.com/riventa/pulsecheck/internal/analysis"
)

func sampleModel() analysis.IntegratedModel {
	return analysis.IntegratedModel{
		SubmissionID: "sub-r",
		CompanyName:  "Acme Tooling",
		OverallScore: 68.4,
		ChapterScores: map[string]float64{
			"growth-engine": 70.1,
		},
		Themes: []analysis.CrossFunctionalAnalysis{
			{AnalysisType: "growth-potential", Score: 70, Summary: "Growth is steady.", Findings: []string{"f1"}},
		},
		Categories: []analysis.IntegratedCategory{
			{
				Code: "STR", Name: "Strategy", Chapter: "growth-engine", Score: 80,
				BenchmarkComparison: "above",
				Strengths:           []string{"Clear annual plan"},
				QuickWins:           []string{"Publish the plan internally"},
				Recommendations: []analysis.Recommendation{
					{Action: "Review strategy quarterly", Priority: "high", Timeframe: "90 days", Impact: "high"},
				},
			},
			{Code: "FIN", Name: "Finance", Chapter: "financial-footing", Score: 55, BenchmarkComparison: "at", Fallback: true},
		},
		TopRecommendations: []analysis.RankedRecommendation{
			{Recommendation: analysis.Recommendation{Action: "Review strategy quarterly"}, Category: "STR", Rank: 1},
		},
		QuickWins: []analysis.AttributedItem{{Category: "STR", Text: "Publish the plan internally"}},
		KeyRisks:  []analysis.AttributedItem{{Category: "FIN", Text: "Thin cash buffer"}},
	}
}

func sampleSummaries() analysis.SummarySet {
	summaries := make([]analysis.ReportSummary, 0, len(analysis.Reports()))
	for _, name := range analysis.Reports() {
		summaries = append(summaries, analysis.ReportSummary{
			Report:    name,
			Headline:  "Holding steady at 68",
			Paragraph: "The business is in line with benchmarks.",
		})
	}
	return analysis.SummarySet{SubmissionID: "sub-r", Summaries: summaries}
}

func TestRenderProducesEveryReport(t *testing.T) {
	rendered, err := Render(sampleModel(), sampleSummaries())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(rendered) != len(analysis.Reports()) {
		t.Fatalf("expected %d reports, got %d", len(analysis.Reports()), len(rendered))
	}
	for _, name := range analysis.Reports() {
		html, ok := rendered[name]
		if !ok {
			t.Fatalf("report %s missing", name)
		}
		if !strings.Contains(html, "Holding steady at 68") {
			t.Fatalf("report %s missing BLUF headline", name)
		}
		if !strings.Contains(html, "Acme Tooling") {
			t.Fatalf("report %s missing company name", name)
		}
	}
}

func TestRenderEmitsDimensionConventions(t *testing.T) {
	rendered, err := Render(sampleModel(), sampleSummaries())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	deepDive := rendered[analysis.ReportManagerDeepDive]
	for _, want := range []string{
		`id="dimension-str"`,
		`data-dimension="str"`,
		`id="dimension-fin"`,
		`data-content-type="quick-win"`,
		`data-source="manager_deepdive"`,
	} {
		if !strings.Contains(deepDive, want) {
			t.Fatalf("deep dive missing %s", want)
		}
	}
	if !strings.Contains(deepDive, "benchmark data only") {
		t.Fatal("fallback category must carry the benchmark-only note")
	}

	comprehensive := rendered[analysis.ReportComprehensive]
	if !strings.Contains(comprehensive, `data-theme="growth-potential"`) {
		t.Fatal("comprehensive report missing the theme section")
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(analysis.ReportOwners); got != "owners_report.html" {
		t.Fatalf("unexpected file name %s", got)
	}
}
