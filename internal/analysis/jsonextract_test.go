// File path: internal/analysis/jsonextract_test.go
package analysis

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractJSONObjectFromFencedReply(t *testing.T) {
	reply := "Here is the analysis you asked for:\n```json\n{\"score\": 72, \"summary\": \"steady\"}\n```\nLet me know if you need more."
	got, err := ExtractJSONObject(reply)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(got), &payload); err != nil {
		t.Fatalf("extracted text is not valid JSON: %v", err)
	}
	if payload["summary"] != "steady" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestExtractJSONObjectHandlesNestedBraces(t *testing.T) {
	reply := `{"outer": {"inner": {"deep": "value"}}, "tail": "after {braces} in a string"}`
	got, err := ExtractJSONObject(reply)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != reply {
		t.Fatalf("expected full object back, got %q", got)
	}
}

func TestExtractJSONObjectIgnoresSurroundingProse(t *testing.T) {
	reply := `The model thinks the following { "verdict": "ok", "note": "quote \" inside" } and that is all.`
	got, err := ExtractJSONObject(reply)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(got), &payload); err != nil {
		t.Fatalf("extracted text is not valid JSON: %v", err)
	}
	if payload["verdict"] != "ok" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestExtractJSONObjectErrorsWithoutObject(t *testing.T) {
	if _, err := ExtractJSONObject("no structured content here"); !errors.Is(err, ErrNoJSONObject) {
		t.Fatalf("expected ErrNoJSONObject, got %v", err)
	}
	if _, err := ExtractJSONObject("{ unterminated"); !errors.Is(err, ErrNoJSONObject) {
		t.Fatalf("expected ErrNoJSONObject for unbalanced braces, got %v", err)
	}
}
