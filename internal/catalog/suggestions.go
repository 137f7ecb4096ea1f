package catalog

import (
	"strings"

	"ms-storefront/internal/models"
)

const (
	minSuggestionQuery    = 2
	DefaultMaxSuggestions = 6
)

// FilterSuggestions matches name, location or category case-insensitively.
// Queries shorter than two characters yield nothing.
func FilterSuggestions(events []models.Event, query string, max int) []models.Event {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < minSuggestionQuery {
		return []models.Event{}
	}
	if max <= 0 {
		max = DefaultMaxSuggestions
	}

	out := make([]models.Event, 0, max)
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Location), q) ||
			strings.Contains(strings.ToLower(e.Category), q) {
			out = append(out, e)
			if len(out) == max {
				break
			}
		}
	}
	return out
}
