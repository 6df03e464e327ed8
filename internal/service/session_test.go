package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"
)

// gateScorer blocks each request until its case id is released, so tests
// can control response arrival order.
type gateScorer struct {
	mu      sync.Mutex
	started map[string]chan struct{}
	release map[string]chan struct{}
}

func newGateScorer(caseIDs ...string) *gateScorer {
	g := &gateScorer{
		started: map[string]chan struct{}{},
		release: map[string]chan struct{}{},
	}
	for _, id := range caseIDs {
		g.started[id] = make(chan struct{})
		g.release[id] = make(chan struct{})
	}
	return g
}

func (g *gateScorer) SimilarCases(ctx context.Context, caseID string) ([]json.RawMessage, error) {
	g.mu.Lock()
	started, release := g.started[caseID], g.release[caseID]
	g.mu.Unlock()
	close(started)
	<-release
	entry, _ := json.Marshal(map[string]any{"case_id": "related-of-" + caseID})
	return []json.RawMessage{entry}, nil
}

func (g *gateScorer) waitStarted(t *testing.T, caseID string) {
	t.Helper()
	select {
	case <-g.started[caseID]:
	case <-time.After(2 * time.Second):
		t.Fatalf("request for %s never started", caseID)
	}
}

func TestRelatedSessionLastRequestWins(t *testing.T) {
	g := newGateScorer("A", "B")
	r := newResolver(g)
	session := &RelatedSession{}

	doneA := make(chan struct{})
	doneB := make(chan struct{})
	go func() {
		defer close(doneA)
		_, _ = session.Load(context.Background(), r, "A")
	}()
	g.waitStarted(t, "A")
	go func() {
		defer close(doneB)
		_, _ = session.Load(context.Background(), r, "B")
	}()
	g.waitStarted(t, "B")

	// B's response arrives first, then A's stale response.
	close(g.release["B"])
	<-doneB
	close(g.release["A"])
	<-doneA

	snap := session.Snapshot()
	if snap.State != RelatedSuccess {
		t.Fatalf("expected success state, got %v (%s)", snap.State, snap.Message)
	}
	if snap.CaseID != "B" {
		t.Fatalf("expected committed result for B, got %s", snap.CaseID)
	}
	if len(snap.Results) != 1 || snap.Results[0].RelatedCaseID != "related-of-B" {
		t.Fatalf("expected B's results committed, got %+v", snap.Results)
	}
}

func TestRelatedSessionFailureState(t *testing.T) {
	f := &fakeScorer{err: fmt.Errorf("scorer unreachable")}
	session := &RelatedSession{}

	_, err := session.Load(context.Background(), newResolver(f), "C1")
	if err == nil {
		t.Fatalf("expected error")
	}
	snap := session.Snapshot()
	if snap.State != RelatedFailure {
		t.Fatalf("expected failure state, got %v", snap.State)
	}
	if snap.Message == "" {
		t.Fatalf("expected human-readable message")
	}
}

func TestRelatedSessionRestartsPerCaseID(t *testing.T) {
	f := &fakeScorer{entries: []json.RawMessage{flatEntry(t, "C2", 0.5)}}
	session := &RelatedSession{}
	r := newResolver(f)

	if _, err := session.Load(context.Background(), r, "C1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap := session.Snapshot(); snap.State != RelatedSuccess || snap.CaseID != "C1" {
		t.Fatalf("expected success for C1, got %+v", snap)
	}

	f.err = fmt.Errorf("boom")
	if _, err := session.Load(context.Background(), r, "C9"); err == nil {
		t.Fatalf("expected error on second load")
	}
	if snap := session.Snapshot(); snap.State != RelatedFailure || snap.CaseID != "C9" {
		t.Fatalf("expected failure for C9, got %+v", snap)
	}
}
