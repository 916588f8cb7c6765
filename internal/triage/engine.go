// Package triage classifies free-text ticket content into a suggested
// priority, category, confidence score and keyword set. It is a deterministic
// rule engine over fixed keyword tables, not a trainable classifier: given the
// same text it always produces the same prediction. Assignee selection is the
// only nondeterministic step and lives behind the AssigneePicker seam.
package triage

import (
	"math"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// Prediction is the ephemeral result of classifying ticket text. It is never
// persisted by the engine itself; callers may record it via a triage log.
type Prediction struct {
	Category             string
	SuggestedPriority    domain.TicketPriority
	UrgencyScore         float64
	SuggestedAssigneeID  *string
	Confidence           float64
	Keywords             []string
	SLABreachProbability float64
}

// Predict classifies the given title and description. The two fields are
// lower-cased and joined with a single space before scanning.
func Predict(title, description string) Prediction {
	text := strings.ToLower(title) + " " + strings.ToLower(description)

	urgency := urgencyScore(text)
	priority := PriorityForScore(urgency)

	return Prediction{
		Category:             category(text),
		SuggestedPriority:    priority,
		UrgencyScore:         round2(urgency),
		Confidence:           round2(confidence(text, urgency)),
		Keywords:             extractKeywords(text),
		SLABreachProbability: breachProbability(urgency),
	}
}

// PriorityForScore bands an urgency score into a priority. Bands are inclusive
// on the lower bound, contiguous and exhaustive over [0,1].
func PriorityForScore(score float64) domain.TicketPriority {
	switch {
	case score >= 0.8:
		return domain.TicketPriorityCritical
	case score >= 0.6:
		return domain.TicketPriorityHigh
	case score >= 0.4:
		return domain.TicketPriorityMedium
	default:
		return domain.TicketPriorityLow
	}
}

func urgencyScore(text string) float64 {
	maxWeight := 0.0
	for _, entry := range urgencyKeywords {
		if strings.Contains(text, entry.Keyword) {
			maxWeight = math.Max(maxWeight, entry.Weight)
		}
	}

	exclamations := strings.Count(text, "!")
	questions := strings.Count(text, "?")
	boost := math.Min(0.2, float64(exclamations)*0.05+float64(questions)*0.02)

	return math.Min(1.0, maxWeight+boost)
}

func category(text string) string {
	for _, entry := range categoryKeywords {
		if strings.Contains(text, entry.Keyword) {
			return entry.Category
		}
	}
	return DefaultCategory
}

// confidence blends the urgency score (60%), the average weight of urgency
// keywords present in the text (30%) and a length factor (10%).
func confidence(text string, urgency float64) float64 {
	sum := 0.0
	count := 0
	for _, entry := range urgencyKeywords {
		if strings.Contains(text, entry.Keyword) {
			sum += entry.Weight
			count++
		}
	}
	avgWeight := 0.0
	if count > 0 {
		avgWeight = sum / float64(count)
	}

	lengthFactor := math.Min(1.0, float64(len(text))/200.0)

	return urgency*0.6 + avgWeight*0.3 + lengthFactor*0.1
}

// extractKeywords returns the urgency keywords present in the text, by
// descending weight, truncated to the top three. The table is declared in
// descending weight order so a single pass preserves the ranking and breaks
// ties by declaration order.
func extractKeywords(text string) []string {
	keywords := make([]string, 0, 3)
	for _, entry := range urgencyKeywords {
		if strings.Contains(text, entry.Keyword) {
			keywords = append(keywords, entry.Keyword)
			if len(keywords) == 3 {
				break
			}
		}
	}
	return keywords
}

// breachProbability is a display-only banding of the urgency score; it is not
// persisted on tickets.
func breachProbability(urgency float64) float64 {
	switch {
	case urgency >= 0.8:
		return 0.85
	case urgency >= 0.6:
		return 0.60
	case urgency >= 0.4:
		return 0.30
	default:
		return 0.10
	}
}

func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
