package models

// LotStatus is computed from remaining inventory when mapping API lots.
type LotStatus string

const (
	LotActive  LotStatus = "active"
	LotSoldOut LotStatus = "sold_out"
	LotEnded   LotStatus = "ended"
)

const NoLotName = "Nenhum lote"

type EventDate struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Time string `json:"time"`
}

// Variant is one audience-specific ticket_type in the API (e.g. Pista / Mulher).
type Variant struct {
	ID        string  `json:"id"`
	Audience  string  `json:"audience"`
	Price     float64 `json:"price"`
	Available int     `json:"available"`
	Total     int     `json:"total"`
}

// TicketType groups the API ticket types that share a name.
type TicketType struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Variants    []Variant `json:"variants"`
}

type Lot struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Status  LotStatus    `json:"status"`
	Tickets []TicketType `json:"tickets"`
}

type EventProducer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

type Event struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	CoverImage  string         `json:"coverImage"`
	Location    string         `json:"location"`
	Address     string         `json:"address"`
	Dates       []EventDate    `json:"dates"`
	CurrentLot  Lot            `json:"currentLot"`
	Featured    bool           `json:"featured"`
	Producer    *EventProducer `json:"producer,omitempty"`
}

// NoLot is the placeholder used when an event has no active lot.
func NoLot() Lot {
	return Lot{Name: NoLotName, Status: LotEnded, Tickets: []TicketType{}}
}

// FindVariant looks a variant up by id across the current lot.
func (e *Event) FindVariant(variantID string) (*TicketType, *Variant) {
	for i := range e.CurrentLot.Tickets {
		tt := &e.CurrentLot.Tickets[i]
		for j := range tt.Variants {
			if tt.Variants[j].ID == variantID {
				return tt, &tt.Variants[j]
			}
		}
	}
	return nil, nil
}

func (e *Event) FindDate(dateID string) *EventDate {
	for i := range e.Dates {
		if e.Dates[i].ID == dateID {
			return &e.Dates[i]
		}
	}
	return nil
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var Categories = []Category{
	{ID: "all", Name: "Todos", Icon: "🎉"},
	{ID: "shows", Name: "Shows", Icon: "🎤"},
	{ID: "festas", Name: "Festas", Icon: "🎊"},
	{ID: "esportes", Name: "Esportes", Icon: "⚽"},
	{ID: "teatro", Name: "Teatro", Icon: "🎭"},
	{ID: "festivais", Name: "Festivais", Icon: "🎪"},
}

var AudienceLabels = map[string]string{
	"GENERAL": "Geral",
	"MALE":    "Masculino",
	"FEMALE":  "Feminino",
	"CHILD":   "Criança",
}

func AudienceLabel(audience string) string {
	if label, ok := AudienceLabels[audience]; ok {
		return label
	}
	return audience
}
