package service

import "strings"

var typeKeywords = map[string][]string{
	"Incident":        {"down", "outage", "crash", "error", "failure", "not working", "broken", "critical", "urgent"},
	"Bug":             {"bug", "defect", "issue", "wrong", "incorrect", "glitch", "problem"},
	"Jira":            {"task", "story", "epic", "sprint", "jira", "ticket"},
	"Feature Request": {"feature", "enhancement", "improvement", "add", "new", "want", "need", "request"},
	"Inquiry":         {"how", "what", "when", "where", "why", "question", "help", "info", "documentation"},
}

var moduleKeywords = map[string][]string{
	"Authentication": {"login", "password", "auth", "sign in", "access", "credential"},
	"Payment":        {"payment", "billing", "invoice", "charge", "subscription", "card"},
	"API":            {"api", "endpoint", "integration", "webhook", "rest", "graphql"},
	"Database":       {"database", "data", "query", "storage", "backup", "migration"},
	"UI/UX":          {"interface", "display", "layout", "design", "button", "screen", "page"},
	"Performance":    {"slow", "performance", "speed", "latency", "timeout", "loading"},
	"Security":       {"security", "vulnerability", "breach", "encryption", "ssl", "https"},
}

// ClassifyType picks the case type whose keyword set matches the
// description best, defaulting to Inquiry.
func ClassifyType(description string) string {
	best, score := "Inquiry", 0
	lower := strings.ToLower(description)
	for _, caseType := range []string{"Incident", "Bug", "Jira", "Feature Request", "Inquiry"} {
		n := countMatches(lower, typeKeywords[caseType])
		if n > score {
			best, score = caseType, n
		}
	}
	return best
}

// ClassifyModule returns the best-matching module and its sub-module.
func ClassifyModule(description string) (string, string) {
	best, score := "", 0
	lower := strings.ToLower(description)
	for _, module := range []string{"Authentication", "Payment", "API", "Database", "UI/UX", "Performance", "Security"} {
		n := countMatches(lower, moduleKeywords[module])
		if n > score {
			best, score = module, n
		}
	}
	if score == 0 {
		return "General", "Other"
	}
	return best, best + " Support"
}

// AssignCategory derives the triage category from type and priority.
func AssignCategory(caseType, priority string) string {
	switch {
	case priority == "Critical":
		return "P0 - Critical"
	case priority == "High":
		return "P1 - High Priority"
	case caseType == "Incident":
		return "P2 - Incident"
	case caseType == "Bug":
		return "P2 - Bug Fix"
	default:
		return "P3 - Standard"
	}
}

func countMatches(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}
