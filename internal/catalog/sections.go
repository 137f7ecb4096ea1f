package catalog

import (
	"sort"
	"time"

	"ms-storefront/internal/models"
)

const sectionLimit = 8

type HomeSections struct {
	Featured []models.Event `json:"featured"`
	Trending []models.Event `json:"trending"`
	Upcoming []models.Event `json:"upcoming"`
	Recent   []models.Event `json:"recent"`
	All      []models.Event `json:"all"`
}

// BuildHomeSections partitions the event list into the home page carousels.
// Curated sections draw from active events, or from every event when none is active.
func BuildHomeSections(events []models.Event, now time.Time) HomeSections {
	active := make([]models.Event, 0, len(events))
	for _, e := range events {
		if IsEventActive(e, now) {
			active = append(active, e)
		}
	}

	featured := filterFeatured(active, true)
	if len(featured) == 0 {
		featured = filterFeatured(events, true)
	}

	pool := active
	if len(pool) == 0 {
		pool = events
	}

	return HomeSections{
		Featured: featured,
		Trending: trending(pool),
		Upcoming: byNextDate(pool, now, true),
		Recent:   byNextDate(filterFeatured(pool, false), now, false),
		All:      events,
	}
}

func filterFeatured(events []models.Event, featured bool) []models.Event {
	out := make([]models.Event, 0)
	for _, e := range events {
		if e.Featured == featured {
			out = append(out, e)
		}
	}
	return out
}

// SoldRatio is the share of the current lot's capacity already sold.
func SoldRatio(event models.Event) float64 {
	available, total := inventory(event)
	if total <= 0 {
		return 0
	}
	return float64(total-available) / float64(total)
}

func trending(pool []models.Event) []models.Event {
	type ranked struct {
		event models.Event
		ratio float64
	}
	items := make([]ranked, 0, len(pool))
	for _, e := range pool {
		if r := SoldRatio(e); r > 0 {
			items = append(items, ranked{event: e, ratio: r})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ratio > items[j].ratio
	})

	out := make([]models.Event, 0, sectionLimit)
	for i := 0; i < len(items) && i < sectionLimit; i++ {
		out = append(out, items[i].event)
	}
	return out
}

// NextEventDate is the earliest date from today on, else the latest past date.
func NextEventDate(event models.Event, now time.Time) (time.Time, bool) {
	dates := make([]time.Time, 0, len(event.Dates))
	for _, d := range event.Dates {
		if t, ok := parseEventDate(d.Date, now.Location()); ok {
			dates = append(dates, t)
		}
	}
	if len(dates) == 0 {
		return time.Time{}, false
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	today := startOfDay(now)
	for _, t := range dates {
		if !t.Before(today) {
			return t, true
		}
	}
	return dates[len(dates)-1], true
}

func byNextDate(pool []models.Event, now time.Time, ascending bool) []models.Event {
	type dated struct {
		event models.Event
		next  time.Time
	}
	items := make([]dated, 0, len(pool))
	for _, e := range pool {
		if next, ok := NextEventDate(e, now); ok {
			items = append(items, dated{event: e, next: next})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if ascending {
			return items[i].next.Before(items[j].next)
		}
		return items[i].next.After(items[j].next)
	})

	out := make([]models.Event, 0, sectionLimit)
	for i := 0; i < len(items) && i < sectionLimit; i++ {
		out = append(out, items[i].event)
	}
	return out
}
