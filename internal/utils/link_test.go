package utils

import "testing"

func TestRefURL(t *testing.T) {
	base := "https://jira.example.com/browse/"

	if got := RefURL(base, "PROJ-123"); got != "https://jira.example.com/browse/PROJ-123" {
		t.Fatalf("expected composed url, got %s", got)
	}
	if got := RefURL(base, "https://other.example.com/PROJ-9"); got != "https://other.example.com/PROJ-9" {
		t.Fatalf("expected full url used verbatim, got %s", got)
	}
	if got := RefURL(base, "http://legacy.example.com/x"); got != "http://legacy.example.com/x" {
		t.Fatalf("expected http url used verbatim, got %s", got)
	}
	if got := RefURL(base, "  "); got != "" {
		t.Fatalf("expected empty value to produce no link, got %s", got)
	}
}
