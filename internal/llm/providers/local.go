// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"fmt"
	"strings"
)

// LocalProvider is the offline stand-in used when no API key is configured.
// It inspects the schema marker the prompt builders embed and answers with a
// well-formed, deterministic JSON object wrapped in a code fence, so the full
// pipeline (including fence stripping and JSON extraction) can run without a
// network dependency.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Chat(ctx context.Context, messages []Message) (Completion, error) {
	if len(messages) == 0 {
		return Completion{}, fmt.Errorf("no messages provided")
	}
	prompt := messages[len(messages)-1].Content
	var body string
	switch {
	case strings.Contains(prompt, `"cross_functional"`):
		theme := markerValue(prompt, "Analysis theme:")
		body = fmt.Sprintf(`{
  "analysisType": %q,
  "summary": "Offline placeholder analysis for the %s theme based on reported scores.",
  "findings": ["Scores in this theme cluster near the reported category averages."],
  "recommendations": ["Review the underlying category responses with an advisor."]
}`, theme, theme)
	case strings.Contains(prompt, `"category_deep_dive"`):
		code := markerValue(prompt, "Category:")
		body = fmt.Sprintf(`{
  "categoryCode": %q,
  "overallScore": 60,
  "benchmarkComparison": "at",
  "confidenceLevel": "medium",
  "strengths": ["Consistent questionnaire responses in this category."],
  "weaknesses": ["Limited narrative detail available offline."],
  "opportunities": ["Revisit this category with live analysis enabled."],
  "threats": ["Offline analysis may miss category-specific risks."],
  "quickWins": ["Confirm the category score against your own records."],
  "risks": ["Placeholder output should not drive decisions alone."],
  "recommendations": [
    {"action": "Re-run this category with a configured completion service.", "priority": "medium", "timeframe": "30 days", "impact": "medium"}
  ],
  "keyMetrics": {"responses_reviewed": 0}
}`, code)
	case strings.Contains(prompt, `"bluf"`):
		report := markerValue(prompt, "Target report:")
		body = fmt.Sprintf(`{
  "report": %q,
  "headline": "Offline assessment summary",
  "paragraph": "This bottom line was generated without a completion service and reflects scores only."
}`, report)
	default:
		body = `{"summary": "` + strings.TrimSpace(firstLine(prompt)) + `"}`
	}
	return Completion{
		Content:    "```json\n" + body + "\n```",
		Model:      "local-stub",
		TokensUsed: (len(prompt) + len(body)) / 4,
	}, nil
}

func (l *LocalProvider) Name() string {
	return "local"
}

func markerValue(prompt, marker string) string {
	idx := strings.Index(prompt, marker)
	if idx < 0 {
		return "unknown"
	}
	rest := prompt[idx+len(marker):]
	if end := strings.IndexByte(rest, '\n'); end >= 0 {
		rest = rest[:end]
	}
	value := strings.TrimSpace(rest)
	if value == "" {
		return "unknown"
	}
	return value
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
