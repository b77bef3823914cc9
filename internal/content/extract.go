// File path: internal/content/extract.go
package content

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/riventa/pulsecheck/internal/analysis"
	"github.com/riventa/pulsecheck/internal/common"
)

// RuleKind selects the attribute a rule matches against.
type RuleKind string

const (
	MatchID        RuleKind = "id"
	MatchClass     RuleKind = "class"
	MatchDimension RuleKind = "data-dimension"
)

// Rule describes one block to pull out of a source document. Rules are
// applied in declaration order; document order decides ordering among the
// nodes one rule matches.
type Rule struct {
	Name        string        `json:"name"`
	Kind        RuleKind      `json:"kind"`
	Value       string        `json:"value"`
	ContentType string        `json:"content_type"`
	Required    bool          `json:"required"`
	Confidence  float64       `json:"confidence"`
	Target      TargetMapping `json:"target"`
}

// Extractor pulls content items out of rendered report HTML.
type Extractor struct {
	rules         []Rule
	minConfidence float64
}

// NewExtractor builds an extractor. Items whose rule confidence falls
// below minConfidence are dropped with a warning rather than emitted.
func NewExtractor(rules []Rule, minConfidence float64) *Extractor {
	return &Extractor{rules: rules, minConfidence: minConfidence}
}

// DefaultRules covers the block conventions the renderer emits: quick
// wins and risks flow from the deep-dive report into the owner's report.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "quick-wins", Kind: MatchClass, Value: "quick-wins",
			ContentType: "quick-win", Required: true, Confidence: 0.9,
			Target: TargetMapping{Report: analysis.ReportOwners, SectionID: "quick-wins", Insertion: InsertWithin},
		},
		{
			Name: "risks", Kind: MatchClass, Value: "risks",
			ContentType: "risk", Required: true, Confidence: 0.9,
			Target: TargetMapping{Report: analysis.ReportOwners, SectionID: "key-risks", Insertion: InsertWithin},
		},
		{
			Name: "method-notes", Kind: MatchID, Value: "recovery-notes",
			ContentType: "method-note", Required: false, Confidence: 0.7,
			Target: TargetMapping{Report: analysis.ReportComprehensive, SectionID: "cross-functional", Insertion: InsertAfter},
		},
	}
}

// Extract runs every rule against the source HTML. A rule that matches
// nothing is a warning, never an error; parse failures are errors.
func (e *Extractor) Extract(sourceFile, htmlSrc string) (ExtractedContent, error) {
	logger := common.Logger()
	doc, err := html.Parse(strings.NewReader(htmlSrc))
	if err != nil {
		return ExtractedContent{}, fmt.Errorf("parse %s: %w", sourceFile, err)
	}
	out := ExtractedContent{
		SourceFile: sourceFile,
		SourceHash: sourceHash(htmlSrc),
	}
	requiredTotal := 0
	requiredSatisfied := 0
	counters := make(map[string]int)
	for _, rule := range e.rules {
		if rule.Required {
			requiredTotal++
		}
		nodes := findAll(doc, rule)
		if len(nodes) == 0 {
			if rule.Required {
				out.Warnings = append(out.Warnings, fmt.Sprintf("required content missing: %s", rule.Name))
				logger.Warn("content: required rule matched nothing", "source", sourceFile, "rule", rule.Name)
			}
			continue
		}
		if rule.Confidence < e.minConfidence {
			// emits nothing, so a required rule filtered here stays unsatisfied
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("rule %s below confidence threshold (%.2f < %.2f)", rule.Name, rule.Confidence, e.minConfidence))
			continue
		}
		if rule.Required {
			requiredSatisfied++
		}
		voice, depth := voiceAndDepth(rule.Target.Report)
		for _, node := range nodes {
			idx := counters[rule.ContentType]
			counters[rule.ContentType]++
			text := plainText(node)
			validation := ValidationPassed
			if text == "" {
				validation = ValidationEmptyText
			}
			item := ContentItem{
				ID:          itemID(sourceFile, rule.ContentType, idx),
				SourceFile:  sourceFile,
				ContentType: rule.ContentType,
				Title:       headingText(node),
				Dimension:   dimensionOf(node),
				HTML:        renderNode(node),
				Text:        text,
				WordCount:   len(strings.Fields(text)),
				Validation:  validation,
				Voice:       voice,
				Depth:       depth,
				Confidence:  rule.Confidence,
				Target:      rule.Target,
			}
			out.Items = append(out.Items, item)
		}
	}
	out.Quality = qualityTier(requiredSatisfied, requiredTotal, len(out.Items))
	logger.Info("content: extraction complete", "source", sourceFile,
		"items", len(out.Items), "quality", out.Quality, "warnings", len(out.Warnings))
	return out, nil
}

// voiceAndDepth picks narrative framing by audience: strategic reports
// get the executive voice at standard depth, everything else the manager
// voice with full detail.
func voiceAndDepth(report string) (string, string) {
	switch report {
	case analysis.ReportExecutiveBrief, analysis.ReportOwners:
		return "executive", "standard"
	default:
		return "manager", "detailed"
	}
}

// qualityTier grades an extraction pass. With no required rules there is
// nothing to fall short of. Otherwise complete demands every required
// rule satisfied and at least three items overall.
func qualityTier(requiredSatisfied, requiredTotal, items int) string {
	switch {
	case requiredTotal == 0:
		return QualityComplete
	case requiredSatisfied == requiredTotal && items >= 3:
		return QualityComplete
	case items > 0:
		return QualityPartial
	default:
		return QualityMinimal
	}
}

func findAll(root *html.Node, rule Rule) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && ruleMatches(n, rule) {
			out = append(out, n)
			// nested matches inside an already captured block are redundant
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func ruleMatches(n *html.Node, rule Rule) bool {
	switch rule.Kind {
	case MatchID:
		return attr(n, "id") == rule.Value
	case MatchDimension:
		return attr(n, "data-dimension") == rule.Value
	case MatchClass:
		for _, class := range strings.Fields(attr(n, "class")) {
			if class == rule.Value {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// dimensionOf reads the node's dimension either from the data attribute
// or from the `dimension-<code>` id convention.
func dimensionOf(n *html.Node) string {
	if d := attr(n, "data-dimension"); d != "" {
		return d
	}
	if id := attr(n, "id"); strings.HasPrefix(id, "dimension-") {
		return strings.TrimPrefix(id, "dimension-")
	}
	return ""
}

func headingText(n *html.Node) string {
	var found string
	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "h1", "h2", "h3", "h4":
				found = strings.TrimSpace(plainText(node))
				return true
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(n)
	return found
}

// plainText flattens the node to whitespace-normalized text, skipping
// script and style subtrees.
func plainText(n *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			return
		}
		if node.Type == html.TextNode {
			builder.WriteString(node.Data)
			builder.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(builder.String()), " ")
}

func renderNode(n *html.Node) string {
	var builder strings.Builder
	if err := html.Render(&builder, n); err != nil {
		return ""
	}
	return builder.String()
}
