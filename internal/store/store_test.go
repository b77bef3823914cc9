// File path: internal/store/store_test.go
package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pulsecheck.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSubmissionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	rec := SubmissionRecord{
		ID:      "sub-1",
		Company: "Acme Tooling",
		Payload: `{"submission_id":"sub-1"}`,
	}
	if err := s.SaveSubmission(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.GetSubmission(ctx, "sub-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Company != rec.Company || got.Payload != rec.Payload {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("created_at must be stamped")
	}

	rec.Company = "Acme Tooling Ltd"
	if err := s.SaveSubmission(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err = s.GetSubmission(ctx, "sub-1")
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if got.Company != "Acme Tooling Ltd" {
		t.Fatalf("upsert did not apply: %s", got.Company)
	}
}

func TestGetSubmissionNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetSubmission(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStateUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	rec := StateRecord{
		SubmissionID: "sub-2",
		Status:       "processing",
		Phase:        "phase1",
		Tokens:       1200,
		Cost:         0.006,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.SaveState(ctx, rec); err != nil {
		t.Fatalf("save state: %v", err)
	}
	rec.Status = "completed"
	rec.Phase = "complete"
	rec.Tokens = 4800
	if err := s.SaveState(ctx, rec); err != nil {
		t.Fatalf("update state: %v", err)
	}
	got, err := s.GetState(ctx, "sub-2")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if got.Status != "completed" || got.Phase != "complete" || got.Tokens != 4800 {
		t.Fatalf("state not updated: %+v", got)
	}
}

func TestRecoveryRecords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	recs := []RecoveryRecord{
		{SubmissionID: "sub-3", Category: "STR", Status: "ok", Attempts: 1},
		{SubmissionID: "sub-3", Category: "FIN", Status: "fallback", Attempts: 3, Detail: "model unavailable"},
	}
	if err := s.SaveRecoveries(ctx, recs); err != nil {
		t.Fatalf("save recoveries: %v", err)
	}
	got, err := s.RecoveriesFor(ctx, "sub-3")
	if err != nil {
		t.Fatalf("list recoveries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Category != "FIN" {
		t.Fatalf("expected category-ordered listing, got %s first", got[0].Category)
	}
	if err := s.SaveRecoveries(ctx, nil); err != nil {
		t.Fatalf("empty save must be a no-op: %v", err)
	}
}
