// Package routing classifies report text into a department and priority.
package routing

import "strings"

const (
	DefaultDepartment = "General"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// departmentRules are evaluated in a fixed order against the full text.
// Every matching rule overwrites the result, so when several rules match
// the LAST one in this list wins. The order is load-bearing; do not sort.
var departmentRules = []struct {
	department string
	keywords   []string
}{
	{"Roads", []string{"pothole", "road"}},
	{"Sanitation", []string{"garbage", "trash"}},
	{"Lighting", []string{"light", "streetlight"}},
	{"Water", []string{"water", "leak"}},
}

// priorityRules follow the same last-match-wins scheme: "minor" is checked
// after the high-priority keywords, so it wins when both appear.
var priorityRules = []struct {
	priority string
	keywords []string
}{
	{PriorityHigh, []string{"urgent", "hazard"}},
	{PriorityLow, []string{"minor"}},
}

// Classify maps free-text report content to a (department, priority) pair.
// It is pure and deterministic: a case-insensitive substring match over the
// category and description concatenated. Empty input yields
// ("General", "medium"). There are no error conditions.
func Classify(description, category string) (department, priority string) {
	text := strings.ToLower(category + " " + description)

	department = DefaultDepartment
	for _, r := range departmentRules {
		if containsAny(text, r.keywords) {
			department = r.department
		}
	}

	priority = PriorityMedium
	for _, r := range priorityRules {
		if containsAny(text, r.keywords) {
			priority = r.priority
		}
	}
	return department, priority
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
