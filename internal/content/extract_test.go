// File path: internal/content/extract_test.go
package content

import (
	"strings"
	"testing"
)

const sampleReport = `<!DOCTYPE html>
<html>
<body data-source="manager_deepdive">
<section id="dimension-str" class="dimension-section" data-dimension="str">
  <h2>Strategy</h2>
  <div class="quick-wins" data-content-type="quick-win"><h3>Quick wins</h3><ul><li>Document the annual plan</li></ul></div>
  <div class="risks" data-content-type="risk"><h3>Risks</h3><ul><li>No succession plan</li></ul></div>
  <script>console.log("ignore me")</script>
</section>
<section id="dimension-fin" class="dimension-section" data-dimension="fin">
  <h2>Finance</h2>
  <div class="quick-wins" data-content-type="quick-win"><h3>Quick wins</h3><ul><li>Tighten invoicing cadence</li></ul></div>
</section>
</body>
</html>`

func TestExtractProducesDeterministicIDs(t *testing.T) {
	ex := NewExtractor(DefaultRules(), 0.5)
	first, err := ex.Extract("manager_deepdive.html", sampleReport)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	second, err := ex.Extract("manager_deepdive.html", sampleReport)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(first.Items) == 0 {
		t.Fatal("expected extracted items")
	}
	if len(first.Items) != len(second.Items) {
		t.Fatalf("extraction not stable: %d vs %d items", len(first.Items), len(second.Items))
	}
	for i := range first.Items {
		if first.Items[i].ID != second.Items[i].ID {
			t.Fatalf("item %d: id %s != %s across runs", i, first.Items[i].ID, second.Items[i].ID)
		}
	}
	if first.SourceHash != second.SourceHash {
		t.Fatal("source hash must be stable")
	}
}

func TestExtractReadsDimensionAndText(t *testing.T) {
	rules := []Rule{{
		Name: "sections", Kind: MatchClass, Value: "dimension-section",
		ContentType: "dimension-detail", Confidence: 0.9,
		Target: TargetMapping{Report: "comprehensive_report", SectionID: "cross-functional", Insertion: InsertAfter},
	}}
	out, err := NewExtractor(rules, 0.5).Extract("deepdive.html", sampleReport)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(out.Items))
	}
	item := out.Items[0]
	if item.Dimension != "str" {
		t.Fatalf("expected dimension str, got %q", item.Dimension)
	}
	if item.Title != "Strategy" {
		t.Fatalf("expected heading title, got %q", item.Title)
	}
	if strings.Contains(item.Text, "ignore me") {
		t.Fatal("script content must not leak into plain text")
	}
	if !strings.Contains(item.Text, "Document the annual plan") {
		t.Fatalf("expected list text, got %q", item.Text)
	}
	if item.Voice != "manager" || item.Depth != "detailed" {
		t.Fatalf("deep-dive targets get manager voice, got %s/%s", item.Voice, item.Depth)
	}
	if out.Quality != QualityComplete {
		t.Fatalf("expected complete quality, got %s", out.Quality)
	}
}

func TestExtractStrategicTargetsGetExecutiveVoice(t *testing.T) {
	rules := []Rule{{
		Name: "wins", Kind: MatchClass, Value: "quick-wins",
		ContentType: "quick-win", Confidence: 0.9,
		Target: TargetMapping{Report: "owners_report", SectionID: "quick-wins", Insertion: InsertWithin},
	}}
	out, err := NewExtractor(rules, 0.5).Extract("deepdive.html", sampleReport)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(out.Items) == 0 {
		t.Fatal("expected items")
	}
	if out.Items[0].Voice != "executive" || out.Items[0].Depth != "standard" {
		t.Fatalf("owner's report targets get executive voice, got %s/%s", out.Items[0].Voice, out.Items[0].Depth)
	}
}

func TestExtractRequiredMissIsWarningNotError(t *testing.T) {
	rules := []Rule{
		{
			Name: "absent", Kind: MatchID, Value: "does-not-exist",
			ContentType: "bluf", Required: true, Confidence: 0.9,
			Target: TargetMapping{Report: "executive_brief", SectionID: "overall", Insertion: InsertBefore},
		},
		{
			Name: "wins", Kind: MatchClass, Value: "quick-wins",
			ContentType: "quick-win", Confidence: 0.9,
			Target: TargetMapping{Report: "owners_report", SectionID: "quick-wins", Insertion: InsertWithin},
		},
	}
	out, err := NewExtractor(rules, 0.5).Extract("deepdive.html", sampleReport)
	if err != nil {
		t.Fatalf("required miss must not error: %v", err)
	}
	if len(out.Warnings) == 0 {
		t.Fatal("expected a warning for the missing required rule")
	}
	if out.Quality != QualityPartial {
		t.Fatalf("expected partial quality, got %s", out.Quality)
	}
}

func TestExtractFiltersLowConfidenceRules(t *testing.T) {
	rules := []Rule{{
		Name: "wins", Kind: MatchClass, Value: "quick-wins",
		ContentType: "quick-win", Confidence: 0.2,
		Target: TargetMapping{Report: "owners_report", SectionID: "quick-wins", Insertion: InsertWithin},
	}}
	out, err := NewExtractor(rules, 0.5).Extract("deepdive.html", sampleReport)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(out.Items) != 0 {
		t.Fatalf("low-confidence items must be dropped, got %d", len(out.Items))
	}
	if len(out.Warnings) == 0 {
		t.Fatal("dropping a rule must leave a warning")
	}
}

func TestExtractNothingMatchedIsMinimal(t *testing.T) {
	rules := []Rule{{
		Name: "absent", Kind: MatchID, Value: "missing",
		ContentType: "bluf", Required: true, Confidence: 0.9,
		Target: TargetMapping{Report: "executive_brief", SectionID: "overall", Insertion: InsertBefore},
	}}
	out, err := NewExtractor(rules, 0.5).Extract("deepdive.html", "<html><body><p>empty</p></body></html>")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if out.Quality != QualityMinimal {
		t.Fatalf("expected minimal quality, got %s", out.Quality)
	}
}

func TestExtractQualityDemandsEnoughItems(t *testing.T) {
	// every required rule satisfied, but only two items overall
	rules := []Rule{{
		Name: "wins", Kind: MatchClass, Value: "quick-wins",
		ContentType: "quick-win", Required: true, Confidence: 0.9,
		Target: TargetMapping{Report: "owners_report", SectionID: "quick-wins", Insertion: InsertWithin},
	}}
	out, err := NewExtractor(rules, 0.5).Extract("deepdive.html", sampleReport)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(out.Items))
	}
	if out.Quality != QualityPartial {
		t.Fatalf("two items cannot be complete, got %s", out.Quality)
	}
}

func TestExtractOptionalMissStaysComplete(t *testing.T) {
	rules := []Rule{
		{
			Name: "absent", Kind: MatchID, Value: "does-not-exist",
			ContentType: "bluf", Confidence: 0.9,
			Target: TargetMapping{Report: "executive_brief", SectionID: "overall", Insertion: InsertBefore},
		},
		{
			Name: "wins", Kind: MatchClass, Value: "quick-wins",
			ContentType: "quick-win", Confidence: 0.9,
			Target: TargetMapping{Report: "owners_report", SectionID: "quick-wins", Insertion: InsertWithin},
		},
	}
	out, err := NewExtractor(rules, 0.5).Extract("deepdive.html", sampleReport)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if out.Quality != QualityComplete {
		t.Fatalf("no required rules means complete, got %s", out.Quality)
	}
}

func TestExtractFilteredRequiredRuleIsNotSatisfied(t *testing.T) {
	rules := []Rule{{
		Name: "wins", Kind: MatchClass, Value: "quick-wins",
		ContentType: "quick-win", Required: true, Confidence: 0.2,
		Target: TargetMapping{Report: "owners_report", SectionID: "quick-wins", Insertion: InsertWithin},
	}}
	out, err := NewExtractor(rules, 0.5).Extract("deepdive.html", sampleReport)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(out.Items) != 0 {
		t.Fatalf("filtered rule must emit nothing, got %d items", len(out.Items))
	}
	if out.Quality != QualityMinimal {
		t.Fatalf("a filtered required rule emits nothing and cannot satisfy, got %s", out.Quality)
	}
}

func TestExtractStampsWordCountAndValidation(t *testing.T) {
	rules := []Rule{{
		Name: "wins", Kind: MatchClass, Value: "quick-wins",
		ContentType: "quick-win", Confidence: 0.9,
		Target: TargetMapping{Report: "owners_report", SectionID: "quick-wins", Insertion: InsertWithin},
	}}
	out, err := NewExtractor(rules, 0.5).Extract("deepdive.html", sampleReport)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(out.Items) == 0 {
		t.Fatal("expected items")
	}
	item := out.Items[0]
	if want := len(strings.Fields(item.Text)); item.WordCount != want || item.WordCount == 0 {
		t.Fatalf("word count %d does not match text (%d words)", item.WordCount, want)
	}
	if item.Validation != ValidationPassed {
		t.Fatalf("expected validation %q, got %q", ValidationPassed, item.Validation)
	}
}
