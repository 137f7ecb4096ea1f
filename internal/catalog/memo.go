package catalog

import (
	"sync"
	"time"

	"ms-storefront/internal/models"
)

// SectionMemo caches the last computed sections keyed on the identity of the
// input slice. A new slice, even with equal contents, triggers a recompute.
type SectionMemo struct {
	mu       sync.Mutex
	key      *models.Event
	length   int
	day      time.Time
	sections HomeSections
	valid    bool
}

func (m *SectionMemo) Sections(events []models.Event, now time.Time) HomeSections {
	var key *models.Event
	if len(events) > 0 {
		key = &events[0]
	}
	day := startOfDay(now)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.key == key && m.length == len(events) && m.day.Equal(day) {
		return m.sections
	}
	m.sections = BuildHomeSections(events, now)
	m.key = key
	m.length = len(events)
	m.day = day
	m.valid = true
	return m.sections
}
