package scorer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPScorerEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cases/CASE-00001/similar" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"similar_cases":[{"case_id":"C2","similarity_score":0.8},{"case_id":"C3"}],"count":2}`))
	}))
	defer srv.Close()

	entries, err := HTTPScorer{BaseURL: srv.URL}.SimilarCases(context.Background(), "CASE-00001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 raw entries, got %d", len(entries))
	}
}

func TestHTTPScorerBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"case_id":"C2"}]`))
	}))
	defer srv.Close()

	entries, err := HTTPScorer{BaseURL: srv.URL}.SimilarCases(context.Background(), "CASE-00001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 raw entry, got %d", len(entries))
	}
}

func TestHTTPScorerNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := (HTTPScorer{BaseURL: srv.URL}).SimilarCases(context.Background(), "CASE-00001"); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestHTTPScorerUnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	if _, err := (HTTPScorer{BaseURL: srv.URL}).SimilarCases(context.Background(), "CASE-00001"); err == nil {
		t.Fatalf("expected error on unparseable body")
	}
}

func TestMockScorerDeterministic(t *testing.T) {
	a, err := MockScorer{}.SimilarCases(context.Background(), "CASE-00007")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MockScorer{}.SimilarCases(context.Background(), "CASE-00007")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != 3 || len(b) != 3 {
		t.Fatalf("expected 3 entries, got %d and %d", len(a), len(b))
	}
}
