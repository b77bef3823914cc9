// File path: internal/content/enrich_test.go
package content

import (
	"strings"
	"testing"

	"github.com/riventa/pulsecheck/internal/analysis"
)

func renderedSet() map[string]string {
	deepDive := `<!DOCTYPE html><html><body data-source="manager_deepdive">
<section id="dimension-str" class="dimension-section" data-dimension="str">
  <h2>Strategy</h2>
  <div class="quick-wins" data-content-type="quick-win"><h3>Quick wins</h3><ul><li>Publish the plan</li></ul></div>
  <div class="risks" data-content-type="risk"><h3>Risks</h3><ul><li>No succession plan</li></ul></div>
</section>
</body></html>`
	owners := `<!DOCTYPE html><html><body data-source="owners_report">
<section id="quick-wins" class="quick-wins"><h2>Quick Wins</h2><ul><li>existing</li></ul></section>
<section id="key-risks" class="risks"><h2>Key Risks</h2><ul><li>existing</li></ul></section>
</body></html>`
	comprehensive := `<!DOCTYPE html><html><body data-source="comprehensive_report">
<section id="cross-functional" class="themes"><h2>Cross-Functional Themes</h2></section>
</body></html>`
	executive := `<!DOCTYPE html><html><body data-source="executive_brief">
<section id="overall" class="overall"><h2>Overall Score: 68</h2></section>
</body></html>`
	return map[string]string{
		analysis.ReportManagerDeepDive: deepDive,
		analysis.ReportOwners:          owners,
		analysis.ReportComprehensive:   comprehensive,
		analysis.ReportExecutiveBrief:  executive,
	}
}

func TestEnrichReportsPlacesDeepDiveContent(t *testing.T) {
	reports := renderedSet()
	enriched, manifest, err := EnrichReports(reports, 0.5)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if enriched[analysis.ReportManagerDeepDive] != reports[analysis.ReportManagerDeepDive] {
		t.Fatal("source report must not change")
	}
	owners := enriched[analysis.ReportOwners]
	if !strings.Contains(owners, "Publish the plan") {
		t.Fatal("owner's report missing placed quick win")
	}
	if !strings.Contains(owners, "No succession plan") {
		t.Fatal("owner's report missing placed risk")
	}
	if !strings.Contains(owners, "data-integration-id=") {
		t.Fatal("placed blocks must carry integration ids")
	}
	if len(manifest.Placements[analysis.ReportOwners]) == 0 {
		t.Fatal("manifest missing owner's report placements")
	}
	if manifest.Extraction.SourceFile == "" || len(manifest.Extraction.Items) == 0 {
		t.Fatal("manifest missing extraction record")
	}
}

func TestEnrichReportsIsDeterministic(t *testing.T) {
	first, _, err := EnrichReports(renderedSet(), 0.5)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	second, _, err := EnrichReports(renderedSet(), 0.5)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	for name := range first {
		if first[name] != second[name] {
			t.Fatalf("report %s differs across identical passes", name)
		}
	}
}

func TestEnrichReportsRequiresSource(t *testing.T) {
	reports := renderedSet()
	delete(reports, analysis.ReportManagerDeepDive)
	if _, _, err := EnrichReports(reports, 0.5); err == nil {
		t.Fatal("expected error when the source report is missing")
	}
}
