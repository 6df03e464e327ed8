package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/project-canary/backend/internal/models"
	"github.com/project-canary/backend/internal/scorer"
)

// ErrEmptyCaseID is returned before any scorer call is made.
var ErrEmptyCaseID = errors.New("case id must not be empty")

// Resolver turns raw scorer output into a ranked, de-duplicated
// related-case list. It holds no per-request state and never mutates
// stored cases.
type Resolver struct {
	Scorer scorer.Scorer
	Logger zerolog.Logger
	Limit  int
}

// RelatedCases looks up candidates for caseID and normalizes them.
// Malformed entries are dropped rather than failing the request; a
// response that cannot be parsed at all surfaces as an error.
func (r *Resolver) RelatedCases(ctx context.Context, caseID string) ([]models.SimilarCase, error) {
	if caseID == "" {
		return nil, ErrEmptyCaseID
	}

	raw, err := r.Scorer.SimilarCases(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("similarity lookup for %s: %w", caseID, err)
	}

	entries := make([]models.SimilarCase, 0, len(raw))
	dropped := 0
	for _, msg := range raw {
		entry, ok := normalizeEntry(msg)
		if !ok {
			dropped++
			continue
		}
		entries = append(entries, entry)
	}
	if dropped > 0 {
		r.Logger.Warn().Str("case_id", caseID).Int("dropped", dropped).Msg("dropped malformed scorer entries")
	}

	entries = rankRelated(caseID, entries)
	if r.Limit > 0 && len(entries) > r.Limit {
		entries = entries[:r.Limit]
	}
	return entries, nil
}

// normalizeEntry resolves the two scorer payload shapes into one
// canonical record: either a wrapper carrying similarity_score plus a
// nested case, or a flat case that may carry its own score. Entries
// without an identity are not displayable and are rejected.
func normalizeEntry(msg json.RawMessage) (models.SimilarCase, bool) {
	var wrapped struct {
		RelatedCaseID   string       `json:"related_case_id"`
		SimilarityScore *float64     `json:"similarity_score"`
		Cases           *models.Case `json:"cases"`
	}
	if err := json.Unmarshal(msg, &wrapped); err != nil {
		return models.SimilarCase{}, false
	}

	if wrapped.Cases != nil {
		entry := models.SimilarCase{
			RelatedCaseID:   wrapped.Cases.CaseID,
			SimilarityScore: wrapped.SimilarityScore,
			Case:            *wrapped.Cases,
		}
		if entry.RelatedCaseID == "" {
			entry.RelatedCaseID = wrapped.RelatedCaseID
			entry.Case.CaseID = wrapped.RelatedCaseID
		}
		if entry.RelatedCaseID == "" {
			return models.SimilarCase{}, false
		}
		return entry, true
	}

	var flat struct {
		models.Case
		SimilarityScore *float64 `json:"similarity_score"`
	}
	if err := json.Unmarshal(msg, &flat); err != nil {
		return models.SimilarCase{}, false
	}
	if flat.CaseID == "" {
		return models.SimilarCase{}, false
	}
	return models.SimilarCase{
		RelatedCaseID:   flat.CaseID,
		SimilarityScore: flat.SimilarityScore,
		Case:            flat.Case,
	}, true
}

// rankRelated sorts scored entries descending while leaving unscored
// entries in scorer order, drops the source case itself, and keeps only
// the highest-ranked occurrence of each related case id.
func rankRelated(sourceID string, entries []models.SimilarCase) []models.SimilarCase {
	sort.SliceStable(entries, func(i, j int) bool {
		si, sj := entries[i].SimilarityScore, entries[j].SimilarityScore
		if si == nil || sj == nil {
			return false
		}
		return *si > *sj
	})

	seen := make(map[string]struct{}, len(entries))
	out := make([]models.SimilarCase, 0, len(entries))
	for _, e := range entries {
		if e.RelatedCaseID == sourceID {
			continue
		}
		if _, dup := seen[e.RelatedCaseID]; dup {
			continue
		}
		seen[e.RelatedCaseID] = struct{}{}
		out = append(out, e)
	}
	return out
}
