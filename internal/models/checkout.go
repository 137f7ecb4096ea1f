package models

type CheckoutItemInput struct {
	EventDateID  string `json:"eventDateId"`
	TicketTypeID string `json:"ticketTypeId"`
	Quantity     int    `json:"quantity"`
}

type CheckoutPreviewItem struct {
	EventTitle     string  `json:"eventTitle"`
	EventDate      string  `json:"eventDate"`
	TicketTypeName string  `json:"ticketTypeName"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unitPrice"`
	Subtotal       float64 `json:"subtotal"`
}

type CheckoutPreview struct {
	CheckoutID string                `json:"checkoutId"`
	Total      float64               `json:"total"`
	Items      []CheckoutPreviewItem `json:"items"`
}

// CheckoutRequest is what the buyer submits after picking a ticket.
type CheckoutRequest struct {
	EventID   string `json:"eventId" validate:"required"`
	DateID    string `json:"dateId"`
	VariantID string `json:"variantId" validate:"required"`
	Quantity  int    `json:"quantity"`
}
