package wallet

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"ms-storefront/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	StatusActive  = "ativo"
	StatusExpired = "expirado"
)

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

var lower = cases.Lower(language.BrazilianPortuguese)

// Normalize lowercases s and strips combining marks, so "Março" matches "marco".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, lower.String(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func parseDate(value string, loc *time.Location) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if d, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, value); err == nil {
		return d.In(loc), true
	}
	return time.Time{}, false
}

// LongDate renders "2026-03-15" as "15 de março de 2026". Unparseable input is returned as is.
func LongDate(value string, loc *time.Location) string {
	d, ok := parseDate(value, loc)
	if !ok {
		return value
	}
	return fmt.Sprintf("%02d de %s de %d", d.Day(), monthNames[d.Month()-1], d.Year())
}

// Status is expirado when the event day is before today, ativo otherwise.
func Status(t models.WalletTicket, now time.Time) string {
	d, ok := parseDate(t.Date, now.Location())
	if !ok {
		return StatusActive
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return StatusExpired
	}
	return StatusActive
}

func searchableText(t models.WalletTicket, now time.Time) string {
	return Normalize(strings.Join([]string{
		t.EventName,
		t.Location,
		t.TicketType,
		t.QRCode,
		t.HolderName,
		t.Date,
		t.Time,
		LongDate(t.Date, now.Location()),
		Status(t, now),
	}, " "))
}

// Search keeps the tickets whose text contains every whitespace-separated term
// of query. An empty query returns tickets unchanged.
func Search(tickets []models.WalletTicket, query string, now time.Time) []models.WalletTicket {
	terms := strings.Fields(Normalize(strings.TrimSpace(query)))
	if len(terms) == 0 {
		return tickets
	}

	out := make([]models.WalletTicket, 0, len(tickets))
	for _, t := range tickets {
		text := searchableText(t, now)
		matched := true
		for _, term := range terms {
			if !strings.Contains(text, term) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, t)
		}
	}
	return out
}

// Find returns the ticket with id, if present.
func Find(tickets []models.WalletTicket, id string) (models.WalletTicket, bool) {
	for _, t := range tickets {
		if t.ID == id {
			return t, true
		}
	}
	return models.WalletTicket{}, false
}
