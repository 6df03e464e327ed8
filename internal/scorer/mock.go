package scorer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/project-canary/backend/internal/models"
	"github.com/project-canary/backend/internal/utils"
)

// MockScorer fabricates deterministic candidates so the dashboard works
// without the scorer service. It alternates between the two wire shapes
// the real service has produced.
type MockScorer struct{}

func (m MockScorer) SimilarCases(ctx context.Context, caseID string) ([]json.RawMessage, error) {
	h := utils.HashStringToUint64(caseID)
	scores := []float64{0.91, 0.74, 0.42}

	out := make([]json.RawMessage, 0, len(scores))
	for i, score := range scores {
		related := mockCase(fmt.Sprintf("CASE-%05d", (h+uint64(i)*17)%90000+1))
		s := score
		var entry any
		if i%2 == 0 {
			entry = models.SimilarCase{
				RelatedCaseID:   related.CaseID,
				SimilarityScore: &s,
				Case:            related,
			}
		} else {
			entry = struct {
				models.Case
				SimilarityScore float64 `json:"similarity_score"`
			}{Case: related, SimilarityScore: s}
		}
		b, err := json.Marshal(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func mockCase(caseID string) models.Case {
	h := utils.HashStringToUint64(caseID)
	return models.Case{
		ID:           fmt.Sprintf("mock-%x", h),
		CaseID:       caseID,
		CustomerName: fmt.Sprintf("Customer %d", h%500),
		Description:  fmt.Sprintf("Auto-generated neighbor for %s", caseID),
		Priority:     models.Priorities[h%uint64(len(models.Priorities))],
		Type:         models.Types[(h/7)%uint64(len(models.Types))],
		Status:       models.Statuses[(h/13)%uint64(len(models.Statuses))],
		Product:      "Cloud Platform",
		CreatedDate:  time.Now().UTC(),
		UpdatedDate:  time.Now().UTC(),
	}
}
