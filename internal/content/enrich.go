// File path: internal/content/enrich.go
package content

import (
	"fmt"
	"sort"

	"github.com/riventa/pulsecheck/internal/analysis"
	"github.com/riventa/pulsecheck/internal/common"
)

// Manifest records one enrichment pass: what was extracted and where each
// item landed.
type Manifest struct {
	Extraction ExtractedContent       `json:"extraction"`
	Placements map[string][]Placement `json:"placements"`
}

// EnrichReports runs the extraction and integration engines over a
// rendered report set: supplemental blocks are pulled from the manager
// deep dive and placed into the reports their rules target. The deep dive
// itself is never modified. Reports are processed in name order so the
// pass is deterministic.
func EnrichReports(reports map[string]string, minConfidence float64) (map[string]string, Manifest, error) {
	logger := common.Logger()
	source := analysis.ReportManagerDeepDive
	sourceHTML, ok := reports[source]
	if !ok {
		return reports, Manifest{}, fmt.Errorf("source report %s not rendered", source)
	}

	extractor := NewExtractor(DefaultRules(), minConfidence)
	extracted, err := extractor.Extract(source+".html", sourceHTML)
	if err != nil {
		return reports, Manifest{}, err
	}

	byReport := make(map[string][]ContentItem)
	for _, item := range extracted.Items {
		if item.Target.Report == source {
			continue
		}
		byReport[item.Target.Report] = append(byReport[item.Target.Report], item)
	}
	targets := make([]string, 0, len(byReport))
	for name := range byReport {
		targets = append(targets, name)
	}
	sort.Strings(targets)

	enriched := make(map[string]string, len(reports))
	for name, html := range reports {
		enriched[name] = html
	}
	manifest := Manifest{Extraction: extracted, Placements: make(map[string][]Placement)}
	integrator := NewIntegrator(true)
	for _, name := range targets {
		doc, ok := enriched[name]
		if !ok {
			logger.Warn("content: target report not rendered", "report", name)
			continue
		}
		placed, placements, err := integrator.PlaceAll(doc, byReport[name])
		if err != nil {
			return reports, manifest, fmt.Errorf("enrich %s: %w", name, err)
		}
		enriched[name] = placed
		manifest.Placements[name] = placements
	}

	logger.Info("content: enrichment complete",
		"items", len(extracted.Items), "targets", len(targets), "quality", extracted.Quality)
	return enriched, manifest, nil
}
