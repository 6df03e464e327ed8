package models

import "time"

// Case is a single support/incident record. CaseID is the human-facing
// business identifier; ID is the storage key.
type Case struct {
	ID           string    `json:"id"`
	CaseID       string    `json:"case_id"`
	CustomerName string    `json:"customer_name"`
	Description  string    `json:"description"`
	Priority     string    `json:"priority"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Product      string    `json:"product"`
	Module       string    `json:"module,omitempty"`
	SubModule    string    `json:"sub_module,omitempty"`
	Category     string    `json:"category,omitempty"`
	Geography    string    `json:"geography,omitempty"`
	JiraID       string    `json:"jira_id,omitempty"`
	SnowID       string    `json:"snow_id,omitempty"`
	Comments     []string  `json:"comments,omitempty"`
	CreatedDate  time.Time `json:"created_date"`
	UpdatedDate  time.Time `json:"updated_date"`
}

// CaseFilters is a sparse filter set. An empty field means
// "no constraint"; empty strings are never serialized as active
// constraints.
type CaseFilters struct {
	CustomerName string `json:"customer_name,omitempty" form:"customer_name"`
	CaseID       string `json:"case_id,omitempty" form:"case_id"`
	Product      string `json:"product,omitempty" form:"product"`
	Priority     string `json:"priority,omitempty" form:"priority"`
	Type         string `json:"type,omitempty" form:"type"`
	Status       string `json:"status,omitempty" form:"status"`
}

// Empty reports whether no field carries a constraint.
func (f CaseFilters) Empty() bool {
	return f == CaseFilters{}
}

type DashboardStats struct {
	TotalCases   int `json:"total_cases"`
	HighPriority int `json:"high_priority"`
	Incidents    int `json:"incidents"`
	OpenCases    int `json:"open_cases"`
}

// SimilarCase is one ranked related-case entry. SimilarityScore is nil
// when the scorer did not supply one. The JSON layout matches the
// wrapped wire shape the dashboard consumes.
type SimilarCase struct {
	RelatedCaseID   string   `json:"related_case_id"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
	Case            Case     `json:"cases"`
}

// Track is a named grouping of cases.
type Track struct {
	TrackID   string    `json:"track_id"`
	TrackName string    `json:"track_name"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	Priorities = []string{"Low", "Medium", "High", "Critical"}
	Types      = []string{"Inquiry", "Incident", "Jira", "Bug", "Feature Request"}
	Statuses   = []string{"Open", "In Progress", "Resolved", "Closed"}
)

func ValidPriority(v string) bool { return contains(Priorities, v) }
func ValidType(v string) bool     { return contains(Types, v) }
func ValidStatus(v string) bool   { return contains(Statuses, v) }

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
