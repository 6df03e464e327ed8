package service

import "github.com/project-canary/backend/internal/models"

// View is a named tab preset layered on top of user-supplied filters.
// Query rewrites the outgoing filter set; Post, when non-nil, is a
// predicate applied to the fetched result. The high-priority tab is
// the only post-fetch view: priority must stay out of the server query
// because the tab means High OR Critical, which a single exact-match
// filter field cannot express. Keeping the two kinds separate here is
// deliberate; folding them into one filter object loses that OR.
type View struct {
	Name  string
	Query func(models.CaseFilters) models.CaseFilters
	Post  func(models.Case) bool
}

var views = map[string]View{
	"all": {
		Name:  "all",
		Query: func(f models.CaseFilters) models.CaseFilters { return f },
	},
	"high-priority": {
		Name: "high-priority",
		Query: func(f models.CaseFilters) models.CaseFilters {
			f.Priority = ""
			return f
		},
		Post: func(c models.Case) bool {
			return c.Priority == "High" || c.Priority == "Critical"
		},
	},
	"incidents": {
		Name: "incidents",
		Query: func(f models.CaseFilters) models.CaseFilters {
			f.Type = "Incident"
			return f
		},
	},
	"open": {
		Name: "open",
		Query: func(f models.CaseFilters) models.CaseFilters {
			f.Status = "Open"
			return f
		},
	},
}

// ResolveView returns the preset for name; the empty name means "all".
func ResolveView(name string) (View, bool) {
	if name == "" {
		name = "all"
	}
	v, ok := views[name]
	return v, ok
}

// Apply runs the view's post-fetch predicate over fetched cases.
func (v View) Apply(cases []models.Case) []models.Case {
	if v.Post == nil {
		return cases
	}
	out := make([]models.Case, 0, len(cases))
	for _, c := range cases {
		if v.Post(c) {
			out = append(out, c)
		}
	}
	return out
}
