package service

import (
	"context"
	"sync"

	"github.com/project-canary/backend/internal/models"
)

type RelatedState int

const (
	RelatedIdle RelatedState = iota
	RelatedLoading
	RelatedSuccess
	RelatedFailure
)

// RelatedSnapshot is the last-committed view of a consumer's
// related-case panel.
type RelatedSnapshot struct {
	State   RelatedState
	CaseID  string
	Results []models.SimilarCase
	Message string
}

// RelatedSession tracks one consumer's related-case requests. Each
// Load supersedes any in-flight request: results are committed only if
// the request is still current, so a late response for a stale case id
// never overwrites newer state. Superseded responses are discarded on
// arrival; nothing is forcibly aborted.
type RelatedSession struct {
	mu   sync.Mutex
	seq  uint64
	snap RelatedSnapshot
}

// Load resolves related cases for caseID and commits the outcome if no
// newer request started in the meantime. It returns the resolved
// entries regardless of whether they were committed.
func (s *RelatedSession) Load(ctx context.Context, r *Resolver, caseID string) ([]models.SimilarCase, error) {
	token := s.begin(caseID)
	results, err := r.RelatedCases(ctx, caseID)
	s.commit(token, caseID, results, err)
	return results, err
}

func (s *RelatedSession) begin(caseID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.snap = RelatedSnapshot{State: RelatedLoading, CaseID: caseID}
	return s.seq
}

func (s *RelatedSession) commit(token uint64, caseID string, results []models.SimilarCase, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return false
	}
	if err != nil {
		s.snap = RelatedSnapshot{State: RelatedFailure, CaseID: caseID, Message: err.Error()}
		return true
	}
	s.snap = RelatedSnapshot{State: RelatedSuccess, CaseID: caseID, Results: results}
	return true
}

// Snapshot returns the last-committed state.
func (s *RelatedSession) Snapshot() RelatedSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}
