package scorer

import (
	"context"
	"encoding/json"
)

// Scorer looks up scored related-case candidates for a source case.
// Entries come back raw because the upstream service has shipped two
// payload shapes over time; the similarity resolver normalizes them.
type Scorer interface {
	SimilarCases(ctx context.Context, caseID string) ([]json.RawMessage, error)
}
