package triage

// UrgencyKeyword maps a keyword to its urgency weight in (0,1].
type UrgencyKeyword struct {
	Keyword string
	Weight  float64
}

// CategoryKeyword maps a keyword to a category label.
type CategoryKeyword struct {
	Keyword  string
	Category string
}

// urgencyKeywords is the fixed scoring table, ordered by descending weight.
// The slice is initialized once and read-only for the process lifetime.
// Declaration order breaks ties when extracting top keywords.
var urgencyKeywords = []UrgencyKeyword{
	{"critical", 0.9},
	{"down", 0.85},
	{"urgent", 0.8},
	{"broken", 0.75},
	{"error", 0.7},
	{"failed", 0.7},
	{"cannot", 0.65},
	{"unable", 0.65},
	{"issue", 0.5},
	{"problem", 0.5},
	{"help", 0.4},
	{"question", 0.3},
}

// categoryKeywords is the fixed classification table. Declaration order is the
// canonical first-match order: when several keywords appear in the text, the
// earliest entry here wins.
var categoryKeywords = []CategoryKeyword{
	{"login", "Authentication"},
	{"password", "Authentication"},
	{"access", "Access Control"},
	{"email", "Email"},
	{"network", "Network"},
	{"server", "Infrastructure"},
	{"database", "Database"},
	{"application", "Application"},
	{"hardware", "Hardware"},
	{"software", "Software"},
}

// DefaultCategory is returned when no category keyword matches.
const DefaultCategory = "General"

// Categories lists every distinct category label the engine can emit,
// in declaration order with the default appended last.
func Categories() []string {
	seen := make(map[string]struct{}, len(categoryKeywords))
	result := make([]string, 0, len(categoryKeywords)+1)
	for _, entry := range categoryKeywords {
		if _, ok := seen[entry.Category]; ok {
			continue
		}
		seen[entry.Category] = struct{}{}
		result = append(result, entry.Category)
	}
	return append(result, DefaultCategory)
}

// UrgencySignalCount reports the size of the urgency scoring table.
func UrgencySignalCount() int {
	return len(urgencyKeywords)
}
