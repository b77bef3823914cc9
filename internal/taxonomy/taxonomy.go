// File path: internal/taxonomy/taxonomy.go

// Package taxonomy defines the closed two-level category/chapter hierarchy
// that questionnaire questions roll up into, and the fixed set of
// cross-functional themes spanning those categories. The ordering of the
// slices below is canonical: phase outputs list analyses in this order
// regardless of completion order.
package taxonomy

import "strings"

// Category is a leaf of the assessment taxonomy, identified by a short
// uppercase code.
type Category struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Chapter string `json:"chapter"`
}

// Chapter groups categories into a report-level section.
type Chapter struct {
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Theme is one cross-functional analysis target built from multiple
// categories.
type Theme struct {
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

var categories = []Category{
	{Code: "STR", Name: "Strategy", Chapter: "growth-engine"},
	{Code: "MKT", Name: "Marketing", Chapter: "growth-engine"},
	{Code: "SLS", Name: "Sales", Chapter: "growth-engine"},
	{Code: "CXP", Name: "Customer Experience", Chapter: "growth-engine"},
	{Code: "OPS", Name: "Operations", Chapter: "execution-core"},
	{Code: "TEC", Name: "Technology", Chapter: "execution-core"},
	{Code: "FIN", Name: "Finance", Chapter: "financial-footing"},
	{Code: "RSK", Name: "Risk", Chapter: "financial-footing"},
	{Code: "HRM", Name: "People", Chapter: "people-and-leadership"},
	{Code: "LDR", Name: "Leadership", Chapter: "people-and-leadership"},
}

var chapters = []Chapter{
	{Code: "growth-engine", Name: "Growth Engine", Categories: []string{"STR", "MKT", "SLS", "CXP"}},
	{Code: "execution-core", Name: "Execution Core", Categories: []string{"OPS", "TEC"}},
	{Code: "financial-footing", Name: "Financial Footing", Categories: []string{"FIN", "RSK"}},
	{Code: "people-and-leadership", Name: "People and Leadership", Categories: []string{"HRM", "LDR"}},
}

// Every category appears in at least one theme.
var themes = []Theme{
	{Code: "growth-potential", Name: "Growth Potential", Categories: []string{"STR", "MKT", "SLS"}},
	{Code: "operational-efficiency", Name: "Operational Efficiency", Categories: []string{"OPS", "TEC"}},
	{Code: "financial-health", Name: "Financial Health", Categories: []string{"FIN", "RSK"}},
	{Code: "customer-focus", Name: "Customer Focus", Categories: []string{"CXP", "MKT", "SLS"}},
	{Code: "organizational-readiness", Name: "Organizational Readiness", Categories: []string{"HRM", "LDR", "STR"}},
}

// Categories returns the canonical category list in taxonomy order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Chapters returns the canonical chapter list in taxonomy order.
func Chapters() []Chapter {
	out := make([]Chapter, len(chapters))
	copy(out, chapters)
	return out
}

// Themes returns the fixed cross-functional themes in canonical order.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// CategoryByCode resolves a category by its code, case-insensitively.
func CategoryByCode(code string) (Category, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for _, cat := range categories {
		if cat.Code == normalized {
			return cat, true
		}
	}
	return Category{}, false
}

// ChapterByCode resolves a chapter by its code.
func ChapterByCode(code string) (Chapter, bool) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	for _, ch := range chapters {
		if ch.Code == normalized {
			return ch, true
		}
	}
	return Chapter{}, false
}

// ValidCategory reports whether code names a category in the taxonomy.
func ValidCategory(code string) bool {
	_, ok := CategoryByCode(code)
	return ok
}
