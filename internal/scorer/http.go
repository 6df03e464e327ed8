package scorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type HTTPScorer struct {
	BaseURL string
	Client  *http.Client
}

func (s HTTPScorer) SimilarCases(ctx context.Context, caseID string) ([]json.RawMessage, error) {
	if s.Client == nil {
		s.Client = &http.Client{Timeout: 15 * time.Second}
	}

	endpoint := fmt.Sprintf("%s/cases/%s/similar", s.BaseURL, url.PathEscape(caseID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scorer returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// Current deployments wrap entries in {"similar_cases": [...]};
	// older ones return a bare array.
	var envelope struct {
		SimilarCases []json.RawMessage `json:"similar_cases"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.SimilarCases != nil {
		return envelope.SimilarCases, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("unparseable scorer response: %w", err)
	}
	return entries, nil
}
