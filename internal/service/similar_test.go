package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/project-canary/backend/internal/scorer"
)

type fakeScorer struct {
	entries []json.RawMessage
	err     error
	calls   int
}

func (f *fakeScorer) SimilarCases(ctx context.Context, caseID string) ([]json.RawMessage, error) {
	f.calls++
	return f.entries, f.err
}

func flatEntry(t *testing.T, caseID string, score float64) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(map[string]any{"case_id": caseID, "similarity_score": score})
	if err != nil {
		t.Fatalf("marshal entry: %v", err)
	}
	return b
}

func unscoredEntry(t *testing.T, caseID string) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(map[string]any{"case_id": caseID})
	if err != nil {
		t.Fatalf("marshal entry: %v", err)
	}
	return b
}

func wrappedEntry(t *testing.T, caseID string, score float64) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"related_case_id":  caseID,
		"similarity_score": score,
		"cases":            map[string]any{"case_id": caseID, "customer_name": "Acme"},
	})
	if err != nil {
		t.Fatalf("marshal entry: %v", err)
	}
	return b
}

func newResolver(s scorer.Scorer) *Resolver {
	return &Resolver{Scorer: s, Logger: zerolog.Nop()}
}

func TestRelatedCasesEmptyIDFailsFast(t *testing.T) {
	f := &fakeScorer{}
	_, err := newResolver(f).RelatedCases(context.Background(), "")
	if !errors.Is(err, ErrEmptyCaseID) {
		t.Fatalf("expected ErrEmptyCaseID, got %v", err)
	}
	if f.calls != 0 {
		t.Fatalf("expected no scorer call, got %d", f.calls)
	}
}

func TestRelatedCasesSortAndDedupe(t *testing.T) {
	f := &fakeScorer{entries: []json.RawMessage{
		flatEntry(t, "C2", 0.4),
		flatEntry(t, "C3", 0.9),
		flatEntry(t, "C2", 0.7),
	}}
	got, err := newResolver(f).RelatedCases(context.Background(), "C1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].RelatedCaseID != "C3" || *got[0].SimilarityScore != 0.9 {
		t.Fatalf("expected C3(0.9) first, got %s(%v)", got[0].RelatedCaseID, got[0].SimilarityScore)
	}
	if got[1].RelatedCaseID != "C2" || *got[1].SimilarityScore != 0.7 {
		t.Fatalf("expected C2(0.7) second, got %s(%v)", got[1].RelatedCaseID, got[1].SimilarityScore)
	}
}

func TestRelatedCasesExcludesSelf(t *testing.T) {
	f := &fakeScorer{entries: []json.RawMessage{
		flatEntry(t, "C1", 0.99),
		flatEntry(t, "C2", 0.5),
	}}
	got, err := newResolver(f).RelatedCases(context.Background(), "C1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].RelatedCaseID != "C2" {
		t.Fatalf("expected only C2, got %+v", got)
	}
}

func TestRelatedCasesUnscoredOrderPreserved(t *testing.T) {
	f := &fakeScorer{entries: []json.RawMessage{
		unscoredEntry(t, "C4"),
		unscoredEntry(t, "C2"),
		unscoredEntry(t, "C3"),
	}}
	got, err := newResolver(f).RelatedCases(context.Background(), "C1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"C4", "C2", "C3"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].RelatedCaseID != id {
			t.Fatalf("expected %s at %d, got %s", id, i, got[i].RelatedCaseID)
		}
	}
}

func TestRelatedCasesNormalizesWrappedShape(t *testing.T) {
	f := &fakeScorer{entries: []json.RawMessage{
		wrappedEntry(t, "C2", 0.8),
		flatEntry(t, "C3", 0.6),
	}}
	got, err := newResolver(f).RelatedCases(context.Background(), "C1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].RelatedCaseID != "C2" || got[0].Case.CustomerName != "Acme" {
		t.Fatalf("expected nested case payload carried over, got %+v", got[0])
	}
}

func TestRelatedCasesDropsMalformedEntries(t *testing.T) {
	f := &fakeScorer{entries: []json.RawMessage{
		json.RawMessage(`{not json`),
		json.RawMessage(`{"similarity_score": 0.9}`),
		flatEntry(t, "C2", 0.5),
	}}
	got, err := newResolver(f).RelatedCases(context.Background(), "C1")
	if err != nil {
		t.Fatalf("expected partial-result tolerance, got error %v", err)
	}
	if len(got) != 1 || got[0].RelatedCaseID != "C2" {
		t.Fatalf("expected only the well-formed entry, got %+v", got)
	}
}

func TestRelatedCasesScorerFailure(t *testing.T) {
	f := &fakeScorer{err: fmt.Errorf("connection refused")}
	_, err := newResolver(f).RelatedCases(context.Background(), "C1")
	if err == nil {
		t.Fatalf("expected error from scorer failure")
	}
}

func TestRelatedCasesLimit(t *testing.T) {
	f := &fakeScorer{entries: []json.RawMessage{
		flatEntry(t, "C2", 0.9),
		flatEntry(t, "C3", 0.8),
		flatEntry(t, "C4", 0.7),
	}}
	r := newResolver(f)
	r.Limit = 2
	got, err := r.RelatedCases(context.Background(), "C1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].RelatedCaseID != "C2" || got[1].RelatedCaseID != "C3" {
		t.Fatalf("expected top 2 kept, got %+v", got)
	}
}

func TestRelatedCasesMockScorer(t *testing.T) {
	r := newResolver(scorer.MockScorer{})
	got, err := r.RelatedCases(context.Background(), "CASE-00042")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected mock candidates")
	}
	for i := 1; i < len(got); i++ {
		if *got[i-1].SimilarityScore < *got[i].SimilarityScore {
			t.Fatalf("expected descending scores, got %+v", got)
		}
	}
}
