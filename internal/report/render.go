// File path: internal/report/render.go

// Package report renders the integrated model into the HTML deliverables.
// Templates impose the attribute conventions (`id="dimension-<code>"`,
// `data-dimension`, `data-source`) that the content extraction and placement
// engines address; visual styling is left to downstream theming.
package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/riventa/pulsecheck/internal/analysis"
	"github.com/riventa/pulsecheck/internal/common"
)

type renderData struct {
	Model       analysis.IntegratedModel
	Summary     analysis.ReportSummary
	GeneratedAt string
}

var funcs = template.FuncMap{
	"lower": strings.ToLower,
	"score": func(v float64) string { return fmt.Sprintf("%.0f", v) },
}

const sharedDefs = `
{{define "category-section"}}
<section id="dimension-{{lower .Code}}" class="dimension-section" data-dimension="{{lower .Code}}">
  <h2>{{.Name}}</h2>
  <p class="dimension-score">Score: {{score .Score}} ({{.BenchmarkComparison}} benchmark)</p>
  {{if .Strengths}}<div class="findings" data-content-type="finding"><h3>Strengths</h3><ul>{{range .Strengths}}<li>{{.}}</li>{{end}}</ul></div>{{end}}
  {{if .Risks}}<div class="risks" data-content-type="risk"><h3>Risks</h3><ul>{{range .Risks}}<li>{{.}}</li>{{end}}</ul></div>{{end}}
  {{if .QuickWins}}<div class="quick-wins" data-content-type="quick-win"><h3>Quick wins</h3><ul>{{range .QuickWins}}<li>{{.}}</li>{{end}}</ul></div>{{end}}
  {{if .Recommendations}}<div class="recommendations" data-content-type="recommendation"><h3>Recommendations</h3><ol>{{range .Recommendations}}<li>{{.Action}} <em>({{.Priority}} priority, {{.Timeframe}})</em></li>{{end}}</ol></div>{{end}}
  {{if .Fallback}}<p class="fallback-note">This section was generated from benchmark data only.</p>{{end}}
</section>
{{end}}

{{define "bluf"}}
<section id="bottom-line" class="bluf" data-content-type="bluf">
  <h2>{{.Headline}}</h2>
  <p>{{.Paragraph}}</p>
</section>
{{end}}

{{define "themes"}}
<section id="cross-functional" class="themes">
  <h2>Cross-Functional Themes</h2>
  {{range .}}
  <article id="theme-{{.AnalysisType}}" class="theme" data-theme="{{.AnalysisType}}">
    <h3>{{.AnalysisType}}: {{.Score}}</h3>
    <p>{{.Summary}}</p>
    {{if .Findings}}<ul>{{range .Findings}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </article>
  {{end}}
</section>
{{end}}
`

var reportTemplates = map[string]string{
	analysis.ReportExecutiveBrief: sharedDefs + `
<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Executive Brief - {{.Model.CompanyName}}</title></head>
<body data-source="executive_brief">
<header><h1>Executive Brief</h1><p class="generated">Generated {{.GeneratedAt}}</p></header>
{{template "bluf" .Summary}}
<section id="overall" class="overall">
  <h2>Overall Score: {{score .Model.OverallScore}}</h2>
</section>
<section id="top-recommendations" class="recommendations" data-content-type="recommendation">
  <h2>Priority Actions</h2>
  <ol>{{range .Model.TopRecommendations}}<li data-category="{{.Category}}">{{.Action}}</li>{{end}}</ol>
</section>
</body>
</html>`,

	analysis.ReportOwners: sharedDefs + `
<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Owner's Report - {{.Model.CompanyName}}</title></head>
<body data-source="owners_report">
<header><h1>Owner's Report</h1><p class="generated">Generated {{.GeneratedAt}}</p></header>
{{template "bluf" .Summary}}
<section id="chapters" class="chapters">
  <h2>Chapter Scores</h2>
  <ul>{{range $code, $score := .Model.ChapterScores}}<li data-chapter="{{$code}}">{{$code}}: {{score $score}}</li>{{end}}</ul>
</section>
<section id="quick-wins" class="quick-wins" data-content-type="quick-win">
  <h2>Quick Wins</h2>
  <ul>{{range .Model.QuickWins}}<li data-category="{{.Category}}">{{.Text}}</li>{{end}}</ul>
</section>
<section id="key-risks" class="risks" data-content-type="risk">
  <h2>Key Risks</h2>
  <ul>{{range .Model.KeyRisks}}<li data-category="{{.Category}}">{{.Text}}</li>{{end}}</ul>
</section>
</body>
</html>`,

	analysis.ReportComprehensive: sharedDefs + `
<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Comprehensive Report - {{.Model.CompanyName}}</title></head>
<body data-source="comprehensive_report">
<header><h1>Comprehensive Assessment</h1><p class="generated">Generated {{.GeneratedAt}}</p></header>
{{template "bluf" .Summary}}
{{template "themes" .Model.Themes}}
{{range .Model.Categories}}{{template "category-section" .}}{{end}}
</body>
</html>`,

	analysis.ReportManagerDeepDive: sharedDefs + `
<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Manager Deep Dive - {{.Model.CompanyName}}</title></head>
<body data-source="manager_deepdive">
<header><h1>Manager Deep Dive</h1><p class="generated">Generated {{.GeneratedAt}}</p></header>
{{template "bluf" .Summary}}
{{range .Model.Categories}}{{template "category-section" .}}{{end}}
<section id="recovery-notes" class="notes">
  <h2>Method Notes</h2>
  <p>Sections flagged as benchmark-only were produced by the recovery fallback and carry low confidence.</p>
</section>
</body>
</html>`,
}

var parsed = func() map[string]*template.Template {
	out := make(map[string]*template.Template, len(reportTemplates))
	for name, text := range reportTemplates {
		out[name] = template.Must(template.New(name).Funcs(funcs).Parse(text))
	}
	return out
}()

// Render produces every deliverable's HTML, keyed by report name.
func Render(model analysis.IntegratedModel, summaries analysis.SummarySet) (map[string]string, error) {
	logger := common.Logger()
	blufs := make(map[string]analysis.ReportSummary, len(summaries.Summaries))
	for _, s := range summaries.Summaries {
		blufs[s.Report] = s
	}
	rendered := make(map[string]string, len(parsed))
	for _, name := range analysis.Reports() {
		tmpl, ok := parsed[name]
		if !ok {
			return nil, fmt.Errorf("no template for report %s", name)
		}
		data := renderData{
			Model:       model,
			Summary:     blufs[name],
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		}
		builder := &strings.Builder{}
		if err := tmpl.Execute(builder, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		rendered[name] = builder.String()
	}
	logger.Info("report: rendering complete", "submission", model.SubmissionID, "reports", len(rendered))
	return rendered, nil
}

// FileName maps a report name to its on-disk artifact name.
func FileName(report string) string {
	return report + ".html"
}
