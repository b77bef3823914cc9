// File path: internal/content/integrate.go
package content

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/riventa/pulsecheck/internal/common"
)

// ErrTargetNotFound is returned when no strategy can locate a landing
// spot and appending at the document end is disabled.
var ErrTargetNotFound = errors.New("integration target not found")

// Placement records how one item was (or was not) placed.
type Placement struct {
	ItemID   string   `json:"item_id"`
	Section  string   `json:"section"`
	Strategy string   `json:"strategy"`
	Skipped  bool     `json:"skipped,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Integrator places extracted items into target documents using regex
// strategies over the rendered HTML. Strategies degrade in order: exact
// id, data-dimension, class, fuzzy (attribute substring, then heading
// text), then append-at-end when allowed.
type Integrator struct {
	allowAppend bool
}

// NewIntegrator builds an integrator. With allowAppend false, an item
// whose target cannot be located is an error instead of a tail append.
func NewIntegrator(allowAppend bool) *Integrator {
	return &Integrator{allowAppend: allowAppend}
}

// Matching is scoped to block containers the renderer emits. Nested
// same-tag blocks inside a target section are not supported by the
// non-greedy close match.
var blockTags = []string{"section", "div", "article"}

type match struct {
	openStart, openEnd   int
	closeStart, closeEnd int
	strategy             string
}

func findBlock(doc, attrName, attrValue string) (match, bool) {
	for _, tag := range blockTags {
		pattern := fmt.Sprintf(`(?is)(<%s\b[^>]*\b%s="%s"[^>]*>)(.*?)(</%s>)`,
			tag, regexp.QuoteMeta(attrName), regexp.QuoteMeta(attrValue), tag)
		re := regexp.MustCompile(pattern)
		loc := re.FindStringSubmatchIndex(doc)
		if loc == nil {
			continue
		}
		return match{
			openStart:  loc[2],
			openEnd:    loc[3],
			closeStart: loc[6],
			closeEnd:   loc[7],
			strategy:   attrName,
		}, true
	}
	return match{}, false
}

func findClassBlock(doc, class string) (match, bool) {
	for _, tag := range blockTags {
		pattern := fmt.Sprintf(`(?is)(<%s\b[^>]*\bclass="[^"]*\b%s\b[^"]*"[^>]*>)(.*?)(</%s>)`,
			tag, regexp.QuoteMeta(class), tag)
		re := regexp.MustCompile(pattern)
		loc := re.FindStringSubmatchIndex(doc)
		if loc == nil {
			continue
		}
		return match{openStart: loc[2], openEnd: loc[3], closeStart: loc[6], closeEnd: loc[7], strategy: "class"}, true
	}
	return match{}, false
}

// findFuzzy is the last locating step before append. It tries blocks
// whose id or data-dimension merely contains the section id, then
// headings whose normalized text contains the normalized section id.
// A heading hit lands the block right after the heading.
func findFuzzy(doc, sectionID string) (match, bool) {
	for _, attrName := range []string{"id", "data-dimension"} {
		if m, ok := findAttrContains(doc, attrName, sectionID); ok {
			return m, true
		}
	}
	want := normalizeLabel(sectionID)
	re := regexp.MustCompile(`(?is)<h[1-4][^>]*>(.*?)</h[1-4]>`)
	for _, loc := range re.FindAllStringSubmatchIndex(doc, -1) {
		heading := normalizeLabel(stripTags(doc[loc[2]:loc[3]]))
		if strings.Contains(heading, want) {
			return match{openStart: loc[0], openEnd: loc[1], closeStart: loc[0], closeEnd: loc[1], strategy: "fuzzy"}, true
		}
	}
	return match{}, false
}

func findAttrContains(doc, attrName, value string) (match, bool) {
	for _, tag := range blockTags {
		pattern := fmt.Sprintf(`(?is)(<%s\b[^>]*\b%s="[^"]*%s[^"]*"[^>]*>)(.*?)(</%s>)`,
			tag, regexp.QuoteMeta(attrName), regexp.QuoteMeta(value), tag)
		loc := regexp.MustCompile(pattern).FindStringSubmatchIndex(doc)
		if loc == nil {
			continue
		}
		return match{openStart: loc[2], openEnd: loc[3], closeStart: loc[6], closeEnd: loc[7], strategy: "fuzzy"}, true
	}
	return match{}, false
}

var tagStripper = regexp.MustCompile(`<[^>]+>`)

func stripTags(s string) string {
	return tagStripper.ReplaceAllString(s, " ")
}

func normalizeLabel(s string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(builder.String()), " ")
}

// wrap builds the injected block. The comment markers make removal exact
// even when the payload itself contains nested divs.
func wrap(item ContentItem) string {
	return fmt.Sprintf(
		"\n<!-- pc:begin %s -->\n<div data-integration-id=%q data-source=%q data-dimension=%q data-content-type=%q>\n%s\n</div>\n<!-- pc:end %s -->\n",
		item.ID, item.ID, item.SourceFile, item.Dimension, item.ContentType, item.HTML, item.ID)
}

// Place integrates one item into doc. Placing the same item twice is a
// no-op: the data-integration-id already present short-circuits the call.
func (g *Integrator) Place(doc string, item ContentItem) (string, Placement, error) {
	placement := Placement{ItemID: item.ID, Section: item.Target.SectionID}
	if item.ID == "" || item.HTML == "" {
		return doc, placement, fmt.Errorf("item id and html required")
	}
	insertion := item.Target.Insertion
	if insertion == "" {
		insertion = InsertAfter
	}
	if !ValidInsertion(insertion) {
		return doc, placement, fmt.Errorf("unsupported insertion point %q", insertion)
	}
	if strings.Contains(doc, fmt.Sprintf("data-integration-id=%q", item.ID)) {
		placement.Skipped = true
		placement.Strategy = "noop"
		placement.Warnings = append(placement.Warnings, "item already integrated")
		return doc, placement, nil
	}

	m, ok := findBlock(doc, "id", item.Target.SectionID)
	if !ok {
		m, ok = findBlock(doc, "data-dimension", item.Target.SectionID)
	}
	if !ok {
		m, ok = findClassBlock(doc, item.Target.SectionID)
	}
	if !ok {
		if m, ok = findFuzzy(doc, item.Target.SectionID); ok {
			placement.Warnings = append(placement.Warnings,
				fmt.Sprintf("section %q located by fuzzy match", item.Target.SectionID))
		}
	}
	block := wrap(item)
	if !ok {
		if !g.allowAppend {
			return doc, placement, fmt.Errorf("place %s into %s: %w", item.ID, item.Target.SectionID, ErrTargetNotFound)
		}
		placement.Strategy = "append"
		placement.Warnings = append(placement.Warnings,
			fmt.Sprintf("section %q not found, appended at document end", item.Target.SectionID))
		common.Logger().Error("content: append fallback", "item", item.ID, "section", item.Target.SectionID)
		return appendAtEnd(doc, block), placement, nil
	}
	placement.Strategy = m.strategy
	// A heading-only fuzzy hit has no enclosed content span; the block
	// always lands after the heading regardless of insertion point.
	headingOnly := m.closeStart <= m.openEnd

	switch insertion {
	case InsertBefore:
		doc = doc[:m.openStart] + block + doc[m.openStart:]
	case InsertAfter:
		doc = doc[:m.closeEnd] + block + doc[m.closeEnd:]
	case InsertWithin:
		if headingOnly {
			doc = doc[:m.closeEnd] + block + doc[m.closeEnd:]
		} else {
			doc = doc[:m.closeStart] + block + doc[m.closeStart:]
		}
	case InsertReplace:
		placement.Warnings = append(placement.Warnings,
			fmt.Sprintf("section %q content replaced", item.Target.SectionID))
		if headingOnly {
			doc = doc[:m.closeEnd] + block + doc[m.closeEnd:]
		} else {
			doc = doc[:m.openEnd] + block + doc[m.closeStart:]
		}
	}
	return doc, placement, nil
}

func appendAtEnd(doc, block string) string {
	if idx := strings.LastIndex(doc, "</body>"); idx >= 0 {
		return doc[:idx] + block + doc[idx:]
	}
	return doc + block
}

// PlaceAll integrates a batch in lexical target-section order so the
// outcome is independent of the caller's slice ordering. The first hard
// failure aborts the batch.
func (g *Integrator) PlaceAll(doc string, items []ContentItem) (string, []Placement, error) {
	ordered := append([]ContentItem(nil), items...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Target.SectionID != ordered[j].Target.SectionID {
			return ordered[i].Target.SectionID < ordered[j].Target.SectionID
		}
		return ordered[i].ID < ordered[j].ID
	})
	placements := make([]Placement, 0, len(ordered))
	for _, item := range ordered {
		next, placement, err := g.Place(doc, item)
		if err != nil {
			return doc, placements, err
		}
		doc = next
		placements = append(placements, placement)
	}
	return doc, placements, nil
}

// SupplementExists reports whether a block from the given source file and
// dimension has already been integrated into doc.
func SupplementExists(doc, sourceFile, dimension string) bool {
	pattern := fmt.Sprintf(`data-integration-id="[^"]*" data-source="%s" data-dimension="%s"`,
		regexp.QuoteMeta(sourceFile), regexp.QuoteMeta(dimension))
	return regexp.MustCompile(pattern).MatchString(doc)
}

// RemoveSupplement strips a previously placed block by its integration
// id. It reports whether anything was removed.
func RemoveSupplement(doc, integrationID string) (string, bool) {
	pattern := fmt.Sprintf(`(?s)\n?<!-- pc:begin %s -->.*?<!-- pc:end %s -->\n?`,
		regexp.QuoteMeta(integrationID), regexp.QuoteMeta(integrationID))
	re := regexp.MustCompile(pattern)
	if !re.MatchString(doc) {
		return doc, false
	}
	return re.ReplaceAllString(doc, "\n"), true
}
