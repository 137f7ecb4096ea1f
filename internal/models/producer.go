package models

type EventInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	CoverImage  string  `json:"coverImage"`
	Location    string  `json:"location" validate:"required"`
	Address     *string `json:"address"`
}

type UpdateEventInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	CoverImage  *string `json:"coverImage,omitempty"`
	Location    *string `json:"location,omitempty"`
	Address     *string `json:"address,omitempty"`
}

type EventDateInput struct {
	Date      string  `json:"date" validate:"required"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
}

type LotInput struct {
	Name          string `json:"name" validate:"required"`
	StartsAt      string `json:"startsAt" validate:"required"`
	EndsAt        string `json:"endsAt" validate:"required"`
	TotalQuantity int    `json:"totalQuantity" validate:"gt=0"`
}

type TicketTypeInput struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Audience    string  `json:"audience" validate:"required,oneof=GENERAL MALE FEMALE CHILD"`
	MaxQuantity int     `json:"maxQuantity" validate:"gt=0"`
}

// EventRef is the minimal payload returned by producer mutations.
type EventRef struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Status string `json:"status"`
}

type EventStatus string

const (
	EventDraft     EventStatus = "DRAFT"
	EventPublished EventStatus = "PUBLISHED"
	EventPaused    EventStatus = "PAUSED"
	EventCancelled EventStatus = "CANCELLED"
)
