package catalog

import (
	"time"

	"ms-storefront/internal/models"
)

type SaleStatus string

const (
	StatusEsgotado  SaleStatus = "esgotado"
	StatusUltimos   SaleStatus = "ultimos"
	StatusEsgotando SaleStatus = "esgotando"
	StatusNovo      SaleStatus = "novo"
	StatusAtivo     SaleStatus = "ativo"
)

const (
	lastTicketsRatio = 0.10
	sellingFastRatio = 0.30
	newEventWindow   = 30 * 24 * time.Hour
)

var badgeLabels = map[SaleStatus]string{
	StatusEsgotado:  "Esgotado",
	StatusUltimos:   "Últimos ingressos",
	StatusEsgotando: "Esgotando",
	StatusNovo:      "Novo",
}

// inventory sums available and total seats over every variant of the current lot.
func inventory(event models.Event) (available, total int) {
	for _, tt := range event.CurrentLot.Tickets {
		for _, v := range tt.Variants {
			available += v.Available
			total += v.Total
		}
	}
	return available, total
}

// GetEventSaleStatus classifies an event by the share of inventory still for sale.
// A lot without capacity counts as sold out.
func GetEventSaleStatus(event models.Event) SaleStatus {
	if event.CurrentLot.Status == models.LotSoldOut || event.CurrentLot.Status == models.LotEnded {
		return StatusEsgotado
	}

	available, total := inventory(event)
	if total == 0 {
		return StatusEsgotado
	}

	ratio := float64(available) / float64(total)
	switch {
	case ratio <= 0:
		return StatusEsgotado
	case ratio <= lastTicketsRatio:
		return StatusUltimos
	case ratio <= sellingFastRatio:
		return StatusEsgotando
	default:
		return StatusAtivo
	}
}

// IsEventActive reports whether the event still sells and has a date today or later.
func IsEventActive(event models.Event, now time.Time) bool {
	if GetEventSaleStatus(event) == StatusEsgotado {
		return false
	}
	today := startOfDay(now)
	for _, d := range event.Dates {
		t, ok := parseEventDate(d.Date, now.Location())
		if ok && !t.Before(today) {
			return true
		}
	}
	return false
}

// IsEventNew reports whether the first listed date falls within the next 30 days.
func IsEventNew(event models.Event, now time.Time) bool {
	if len(event.Dates) == 0 {
		return false
	}
	first, ok := parseEventDate(event.Dates[0].Date, now.Location())
	if !ok {
		return false
	}
	return first.After(now) && !first.After(now.Add(newEventWindow))
}

// Badge returns the status shown on an event card. ok is false when no badge applies.
func Badge(event models.Event, showNew bool) (status SaleStatus, label string, ok bool) {
	status = GetEventSaleStatus(event)
	if status == StatusAtivo && showNew {
		status = StatusNovo
	}
	label, ok = badgeLabels[status]
	return status, label, ok
}

// LowestPrice is the cheapest variant still available, 0 when nothing is.
func LowestPrice(event models.Event) float64 {
	lowest := -1.0
	for _, tt := range event.CurrentLot.Tickets {
		for _, v := range tt.Variants {
			if v.Available > 0 && (lowest < 0 || v.Price < lowest) {
				lowest = v.Price
			}
		}
	}
	if lowest < 0 {
		return 0
	}
	return lowest
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseEventDate accepts plain calendar dates and RFC3339 timestamps.
func parseEventDate(s string, loc *time.Location) (time.Time, bool) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}
