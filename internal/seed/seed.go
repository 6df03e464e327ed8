package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/project-canary/backend/internal/models"
	"github.com/project-canary/backend/internal/service"
)

var products = []string{
	"Cloud Platform", "Analytics Dashboard", "Mobile App",
	"API Gateway", "Data Warehouse", "CRM System",
	"E-commerce Platform", "Payment Gateway", "Messaging Service",
}

var geographies = []string{
	"North America", "Europe", "Asia Pacific", "Latin America", "Middle East", "Africa",
}

var customers = []string{
	"Acme Corp", "Globex", "Initech", "Umbrella Systems", "Stark Industries",
	"Wayne Enterprises", "Hooli", "Vandelay Industries", "Pied Piper", "Soylent Corp",
}

var descriptionTemplates = []string{
	"Unable to login to the system. Getting error message: access denied",
	"Payment processing failed for a checkout transaction. Customer is unable to complete checkout.",
	"API endpoint /api/v1/orders returning 500 error intermittently.",
	"Dashboard not loading data correctly. Shows a blank panel instead of charts.",
	"Request for new feature: bulk export of case history",
	"Database query performance is very slow for the monthly report",
	"Mobile app crashes when submitting the feedback form",
	"Security vulnerability found in the session handling component",
	"Customer reporting incorrect billing amount on the latest invoice",
	"How do I configure webhook notifications in the system?",
	"Integration with the partner service not working as expected",
	"Need documentation on how to use the analytics module",
	"System experiencing high latency during peak hours",
	"Data export functionality is broken for CSV format",
	"User interface has display issues on mobile devices",
}

var priorityWeights = []weighted{{"Low", 30}, {"Medium", 40}, {"High", 20}, {"Critical", 10}}
var statusWeights = []weighted{{"Open", 40}, {"In Progress", 30}, {"Resolved", 20}, {"Closed", 10}}

type weighted struct {
	value  string
	weight int
}

// CaseID formats the business identifier for the nth case.
func CaseID(index int) string {
	return fmt.Sprintf("CASE-%05d", index)
}

// GenerateBatch produces count synthetic cases starting at startIndex,
// classified the same way the create path classifies real cases.
func GenerateBatch(rng *rand.Rand, startIndex, count int) []models.Case {
	now := time.Now().UTC()
	out := make([]models.Case, 0, count)
	for i := 0; i < count; i++ {
		priority := pick(rng, priorityWeights)
		description := descriptionTemplates[rng.Intn(len(descriptionTemplates))]

		caseType := service.ClassifyType(description)
		module, subModule := service.ClassifyModule(description)
		created := now.AddDate(0, 0, -rng.Intn(31))

		out = append(out, models.Case{
			CaseID:       CaseID(startIndex + i),
			CustomerName: customers[rng.Intn(len(customers))],
			Description:  description,
			Priority:     priority,
			Type:         caseType,
			Status:       pick(rng, statusWeights),
			Product:      products[rng.Intn(len(products))],
			Module:       module,
			SubModule:    subModule,
			Category:     service.AssignCategory(caseType, priority),
			Geography:    geographies[rng.Intn(len(geographies))],
			Comments:     []string{},
			CreatedDate:  created,
			UpdatedDate:  created,
		})
	}
	return out
}

func pick(rng *rand.Rand, choices []weighted) string {
	total := 0
	for _, c := range choices {
		total += c.weight
	}
	n := rng.Intn(total)
	for _, c := range choices {
		n -= c.weight
		if n < 0 {
			return c.value
		}
	}
	return choices[len(choices)-1].value
}
