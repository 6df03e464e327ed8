package service

import "github.com/project-canary/backend/internal/models"

// ComputeStats derives dashboard counters in a single pass over the
// full, unfiltered case set. Buckets are not mutually exclusive.
func ComputeStats(cases []models.Case) models.DashboardStats {
	stats := models.DashboardStats{TotalCases: len(cases)}
	for _, c := range cases {
		if c.Priority == "High" || c.Priority == "Critical" {
			stats.HighPriority++
		}
		if c.Type == "Incident" {
			stats.Incidents++
		}
		if c.Status == "Open" {
			stats.OpenCases++
		}
	}
	return stats
}
