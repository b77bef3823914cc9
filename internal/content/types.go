// File path: internal/content/types.go

// Package content extracts supplemental blocks from generated HTML and
// places them into target report documents.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// InsertionPoint controls where a placed block lands relative to its
// target section.
type InsertionPoint string

const (
	InsertBefore  InsertionPoint = "before"
	InsertAfter   InsertionPoint = "after"
	InsertWithin  InsertionPoint = "within"
	InsertReplace InsertionPoint = "replace"
)

// ValidInsertion reports whether p is one of the supported points.
func ValidInsertion(p InsertionPoint) bool {
	switch p {
	case InsertBefore, InsertAfter, InsertWithin, InsertReplace:
		return true
	}
	return false
}

// TargetMapping names where an extracted item belongs.
type TargetMapping struct {
	Report    string         `json:"report"`
	SectionID string         `json:"section_id"`
	Insertion InsertionPoint `json:"insertion"`
}

// Validation outcomes stamped on extracted items.
const (
	ValidationPassed    = "passed"
	ValidationEmptyText = "empty-text"
)

// ContentItem is one extracted block ready for placement.
type ContentItem struct {
	ID          string        `json:"id"`
	SourceFile  string        `json:"source_file"`
	ContentType string        `json:"content_type"`
	Title       string        `json:"title,omitempty"`
	Dimension   string        `json:"dimension,omitempty"`
	HTML        string        `json:"html"`
	Text        string        `json:"text"`
	WordCount   int           `json:"word_count"`
	Validation  string        `json:"validation"`
	Voice       string        `json:"voice"`
	Depth       string        `json:"depth"`
	Confidence  float64       `json:"confidence"`
	Target      TargetMapping `json:"target"`
}

// Quality tiers for an extraction pass.
const (
	QualityComplete = "complete"
	QualityPartial  = "partial"
	QualityMinimal  = "minimal"
)

// ExtractedContent is the result of running the extractor over one file.
type ExtractedContent struct {
	SourceFile string        `json:"source_file"`
	SourceHash string        `json:"source_hash"`
	Items      []ContentItem `json:"items"`
	Quality    string        `json:"quality"`
	Warnings   []string      `json:"warnings,omitempty"`
}

// itemID derives a stable identifier: the same source file, content type,
// and ordinal always produce the same id, so re-extraction never churns
// downstream placement state.
func itemID(sourceFile, contentType string, index int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", sourceFile, contentType, index)))
	return hex.EncodeToString(sum[:8])
}

// sourceHash fingerprints the raw HTML so callers can detect stale
// extractions.
func sourceHash(htmlSrc string) string {
	sum := sha256.Sum256([]byte(htmlSrc))
	return hex.EncodeToString(sum[:8])
}
