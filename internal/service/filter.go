package service

import (
	"strings"

	"github.com/project-canary/backend/internal/models"
)

// ApplyFilters returns the cases satisfying every set filter field.
// Customer name matches as a case-insensitive substring; case id,
// product, priority, type and status match exactly. Unset fields add
// no constraint, so empty filters return the input unchanged.
func ApplyFilters(f models.CaseFilters, cases []models.Case) []models.Case {
	if f.Empty() {
		return cases
	}
	out := make([]models.Case, 0, len(cases))
	for _, c := range cases {
		if MatchesFilters(f, c) {
			out = append(out, c)
		}
	}
	return out
}

func MatchesFilters(f models.CaseFilters, c models.Case) bool {
	if f.CustomerName != "" && !containsFold(c.CustomerName, f.CustomerName) {
		return false
	}
	if f.CaseID != "" && c.CaseID != f.CaseID {
		return false
	}
	if f.Product != "" && c.Product != f.Product {
		return false
	}
	if f.Priority != "" && c.Priority != f.Priority {
		return false
	}
	if f.Type != "" && c.Type != f.Type {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
