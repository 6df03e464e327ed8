package service

import (
	"testing"

	"github.com/project-canary/backend/internal/models"
)

func TestApplyFiltersIdentity(t *testing.T) {
	cases := []models.Case{
		{CaseID: "CASE-00001", Status: "Open"},
		{CaseID: "CASE-00002", Status: "Closed"},
	}
	got := ApplyFilters(models.CaseFilters{}, cases)
	if len(got) != len(cases) {
		t.Fatalf("expected identity on empty filters, got %d cases", len(got))
	}
	for i := range cases {
		if got[i].CaseID != cases[i].CaseID {
			t.Fatalf("expected order preserved, got %s at %d", got[i].CaseID, i)
		}
	}
}

func TestApplyFiltersStatusExactMatch(t *testing.T) {
	c := models.Case{CaseID: "CASE-00001", Status: "In Progress"}

	got := ApplyFilters(models.CaseFilters{Status: "In Progress"}, []models.Case{c})
	if len(got) != 1 {
		t.Fatalf("expected case to match its own status, got %d", len(got))
	}
	got = ApplyFilters(models.CaseFilters{Status: "Resolved"}, []models.Case{c})
	if len(got) != 0 {
		t.Fatalf("expected no match for different status, got %d", len(got))
	}
}

func TestApplyFiltersCustomerSubstring(t *testing.T) {
	cases := []models.Case{
		{CaseID: "CASE-00001", CustomerName: "Acme Corporation"},
		{CaseID: "CASE-00002", CustomerName: "Globex"},
	}
	got := ApplyFilters(models.CaseFilters{CustomerName: "acme"}, cases)
	if len(got) != 1 || got[0].CaseID != "CASE-00001" {
		t.Fatalf("expected case-insensitive substring match, got %+v", got)
	}
}

func TestApplyFiltersCaseIDNoPartialMatch(t *testing.T) {
	cases := []models.Case{{CaseID: "CASE-00012"}}
	if got := ApplyFilters(models.CaseFilters{CaseID: "CASE-0001"}, cases); len(got) != 0 {
		t.Fatalf("expected no partial match on case_id, got %+v", got)
	}
	if got := ApplyFilters(models.CaseFilters{CaseID: "CASE-00012"}, cases); len(got) != 1 {
		t.Fatalf("expected exact match on case_id, got %+v", got)
	}
}

func TestApplyFiltersAndComposition(t *testing.T) {
	cases := []models.Case{
		{CaseID: "CASE-00001", Status: "Open", Priority: "High"},
		{CaseID: "CASE-00002", Status: "Open", Priority: "Low"},
		{CaseID: "CASE-00003", Status: "Closed", Priority: "High"},
	}
	got := ApplyFilters(models.CaseFilters{Status: "Open", Priority: "High"}, cases)
	if len(got) != 1 || got[0].CaseID != "CASE-00001" {
		t.Fatalf("expected exactly the first case, got %+v", got)
	}
}
