// File path: internal/analysis/prompts.go
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/riventa/pulsecheck/internal/score"
	"github.com/riventa/pulsecheck/internal/taxonomy"
)

// JSON shapes are passed into the templates as data rather than inlined, so
// the brace syntax of the template format never collides with JSON braces.
const crossFunctionalSchema = `{
  "analysisType": "<theme code>",
  "summary": "<3-5 sentence narrative>",
  "findings": ["<finding>", "..."],
  "recommendations": ["<recommendation>", "..."]
}`

const categorySchema = `{
  "categoryCode": "<category code>",
  "overallScore": <0-100>,
  "benchmarkComparison": "below|at|above",
  "confidenceLevel": "low|medium|high",
  "strengths": ["..."],
  "weaknesses": ["..."],
  "opportunities": ["..."],
  "threats": ["..."],
  "quickWins": ["..."],
  "risks": ["..."],
  "recommendations": [
    {"action": "...", "priority": "high|medium|low", "timeframe": "...", "impact": "high|medium|low"}
  ],
  "keyMetrics": {"<metric>": <number>}
}`

const blufSchema = `{
  "report": "<report name>",
  "headline": "<one-line bottom line>",
  "paragraph": "<2-4 sentence summary>"
}`

var crossFunctionalTemplate = prompts.PromptTemplate{
	TemplateFormat: prompts.TemplateFormatFString,
	InputVariables: []string{"theme", "focus", "company", "scores", "responses", "schema"},
	Template: `You are a business operations analyst reviewing a small company's assessment scores.

Analysis theme: {theme}
Theme focus: {focus}
Company profile:
{company}
Contributing category scores:
{scores}
Representative questionnaire responses:
{responses}

Write a cross-functional narrative for this theme grounded only in the data above.
Reply with exactly one JSON object matching the "cross_functional" shape:
{schema}
Do not add prose outside the JSON object.`,
}

var categoryTemplate = prompts.PromptTemplate{
	TemplateFormat: prompts.TemplateFormatFString,
	InputVariables: []string{"category", "name", "score", "company", "themes", "responses", "schema"},
	Template: `You are a business operations analyst preparing a SWOT-style deep dive.

Category: {category}
Category name: {name}
Category score: {score}
Company profile:
{company}
Cross-functional context:
{themes}
Questionnaire responses for this category:
{responses}

Assess this category's operational health against small-business norms.
Reply with exactly one JSON object matching the "category_deep_dive" shape:
{schema}
Do not add prose outside the JSON object.`,
}

var blufTemplate = prompts.PromptTemplate{
	TemplateFormat: prompts.TemplateFormatFString,
	InputVariables: []string{"report", "audience", "overall", "standings", "recommendations", "schema"},
	Template: `You are writing the bottom line up front for a business health report.

Target report: {report}
Audience: {audience}
Overall score: {overall}
Category standings:
{standings}
Leading recommendations:
{recommendations}

Reply with exactly one JSON object matching the "bluf" shape:
{schema}
Do not add prose outside the JSON object.`,
}

// BuildCrossFunctionalPrompt renders the phase 1 prompt for one theme.
func BuildCrossFunctionalPrompt(theme taxonomy.Theme, phase0 score.Phase0Output) (string, error) {
	return crossFunctionalTemplate.Format(map[string]any{
		"theme":     theme.Code,
		"focus":     theme.Name,
		"company":   formatCompany(phase0.Business),
		"scores":    formatCategoryScores(theme.Categories, phase0.CategoryScores),
		"responses": formatResponses(phase0.Responses, theme.Categories, 3),
		"schema":    crossFunctionalSchema,
	})
}

// BuildCategoryPrompt renders the phase 1.5 prompt for one category,
// including the already-computed cross-functional context.
func BuildCategoryPrompt(cat taxonomy.Category, phase0 score.Phase0Output, themes []CrossFunctionalAnalysis) (string, error) {
	return categoryTemplate.Format(map[string]any{
		"category":  cat.Code,
		"name":      cat.Name,
		"score":     fmt.Sprintf("%.1f", phase0.CategoryScores[cat.Code]),
		"company":   formatCompany(phase0.Business),
		"themes":    formatThemeContext(cat.Code, themes),
		"responses": formatResponses(phase0.Responses, []string{cat.Code}, 8),
		"schema":    categorySchema,
	})
}

// BuildSummaryPrompt renders the phase 4.5 BLUF prompt for one report.
func BuildSummaryPrompt(report string, model IntegratedModel) (string, error) {
	audience := "business owner"
	switch report {
	case ReportExecutiveBrief:
		audience = "time-pressed executive"
	case ReportManagerDeepDive:
		audience = "operational manager"
	case ReportComprehensive:
		audience = "owner and advisors reading the full assessment"
	}
	return blufTemplate.Format(map[string]any{
		"report":          report,
		"audience":        audience,
		"overall":         fmt.Sprintf("%.1f", model.OverallScore),
		"standings":       formatStandings(model.Categories),
		"recommendations": formatRanked(model.TopRecommendations, 5),
		"schema":          blufSchema,
	})
}

func formatCompany(b score.BusinessOverview) string {
	builder := &strings.Builder{}
	name := strings.TrimSpace(b.CompanyName)
	if name == "" {
		name = "Unnamed company"
	}
	fmt.Fprintf(builder, "- Name: %s\n", name)
	if b.Industry != "" {
		fmt.Fprintf(builder, "- Industry: %s\n", b.Industry)
	}
	if b.YearsInBusiness > 0 {
		fmt.Fprintf(builder, "- Years in business: %d\n", b.YearsInBusiness)
	}
	if b.Employees > 0 {
		fmt.Fprintf(builder, "- Employees: %d\n", b.Employees)
	}
	if b.AnnualRevenue > 0 {
		fmt.Fprintf(builder, "- Annual revenue: %.0f\n", b.AnnualRevenue)
	}
	if len(b.Products) > 0 {
		fmt.Fprintf(builder, "- Products: %s\n", strings.Join(b.Products, ", "))
	}
	if len(b.Challenges) > 0 {
		fmt.Fprintf(builder, "- Named challenges: %s\n", strings.Join(b.Challenges, ", "))
	}
	if len(b.Competitors) > 0 {
		fmt.Fprintf(builder, "- Competitors: %s\n", strings.Join(b.Competitors, ", "))
	}
	return strings.TrimRight(builder.String(), "\n")
}

func formatCategoryScores(codes []string, scores map[string]float64) string {
	builder := &strings.Builder{}
	for _, code := range codes {
		if value, ok := scores[code]; ok {
			fmt.Fprintf(builder, "- %s: %.1f\n", code, value)
		} else {
			fmt.Fprintf(builder, "- %s: no scored responses\n", code)
		}
	}
	return strings.TrimRight(builder.String(), "\n")
}

// formatResponses lists up to perCategory responses for each requested
// category, flagging estimates and carrying follow-up text, which is often
// the only free-text signal the model gets.
func formatResponses(responses []score.NormalizedResponse, codes []string, perCategory int) string {
	wanted := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		wanted[code] = struct{}{}
	}
	counts := make(map[string]int)
	builder := &strings.Builder{}
	for _, r := range responses {
		if _, ok := wanted[r.Category]; !ok {
			continue
		}
		if counts[r.Category] >= perCategory {
			continue
		}
		counts[r.Category]++
		fmt.Fprintf(builder, "- [%s] %s: raw %.1f, score %.1f", r.Category, r.QuestionID, r.RawValue, r.Score)
		if r.IsEstimate {
			builder.WriteString(" (estimate)")
		}
		if r.FollowUp != "" {
			fmt.Fprintf(builder, " - note: %s", r.FollowUp)
		}
		builder.WriteString("\n")
	}
	if builder.Len() == 0 {
		return "- None recorded"
	}
	return strings.TrimRight(builder.String(), "\n")
}

func formatThemeContext(categoryCode string, themes []CrossFunctionalAnalysis) string {
	builder := &strings.Builder{}
	for _, theme := range themes {
		for _, code := range theme.Categories {
			if code != categoryCode {
				continue
			}
			fmt.Fprintf(builder, "- %s (score %d): %s\n", theme.AnalysisType, theme.Score, theme.Summary)
			break
		}
	}
	if builder.Len() == 0 {
		return "- No cross-functional context available"
	}
	return strings.TrimRight(builder.String(), "\n")
}

func formatStandings(categories []IntegratedCategory) string {
	sorted := make([]IntegratedCategory, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	builder := &strings.Builder{}
	for _, cat := range sorted {
		fmt.Fprintf(builder, "- %s (%s): %.1f, %s benchmark\n", cat.Name, cat.Code, cat.Score, cat.BenchmarkComparison)
	}
	if builder.Len() == 0 {
		return "- None"
	}
	return strings.TrimRight(builder.String(), "\n")
}

func formatRanked(recs []RankedRecommendation, limit int) string {
	builder := &strings.Builder{}
	for i, rec := range recs {
		if i >= limit {
			break
		}
		fmt.Fprintf(builder, "- [%s] %s (priority %s, impact %s)\n", rec.Category, rec.Action, rec.Priority, rec.Impact)
	}
	if builder.Len() == 0 {
		return "- None"
	}
	return strings.TrimRight(builder.String(), "\n")
}
