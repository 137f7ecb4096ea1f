package checkout

import (
	"errors"

	"ms-storefront/internal/models"

	"github.com/shopspring/decimal"
)

// MaxPerOrder caps the quantity of a single variant in one checkout.
const MaxPerOrder = 10

var (
	ErrDateRequired       = errors.New("event date not selected")
	ErrDateNotFound       = errors.New("event date not found")
	ErrVariantRequired    = errors.New("ticket not selected")
	ErrVariantNotFound    = errors.New("ticket variant not found")
	ErrVariantUnavailable = errors.New("ticket variant sold out")
)

// Selection is the buyer's pick of date, ticket and quantity for one event.
type Selection struct {
	event    *models.Event
	date     *models.EventDate
	ticket   *models.TicketType
	variant  *models.Variant
	quantity int
}

// NewSelection starts with quantity 1. Events with a single date have it preselected.
func NewSelection(event *models.Event) *Selection {
	s := &Selection{event: event, quantity: 1}
	if len(event.Dates) == 1 {
		s.date = &event.Dates[0]
	}
	return s
}

func (s *Selection) SelectDate(dateID string) error {
	date := s.event.FindDate(dateID)
	if date == nil {
		return ErrDateNotFound
	}
	s.date = date
	return nil
}

// SelectVariant picks a variant of the current lot and re-clamps the quantity.
func (s *Selection) SelectVariant(variantID string) error {
	ticket, variant := s.event.FindVariant(variantID)
	if variant == nil {
		return ErrVariantNotFound
	}
	if variant.Available <= 0 {
		return ErrVariantUnavailable
	}
	s.ticket = ticket
	s.variant = variant
	s.quantity = s.clamp(s.quantity)
	return nil
}

// MaxQuantity is min(10, available) for the selected variant, 1 when none is selected.
func (s *Selection) MaxQuantity() int {
	if s.variant == nil {
		return 1
	}
	if s.variant.Available < MaxPerOrder {
		return s.variant.Available
	}
	return MaxPerOrder
}

func (s *Selection) clamp(n int) int {
	if n < 1 {
		return 1
	}
	if max := s.MaxQuantity(); n > max {
		return max
	}
	return n
}

// SetQuantity clamps n into [1, MaxQuantity] and returns the applied value.
func (s *Selection) SetQuantity(n int) int {
	s.quantity = s.clamp(n)
	return s.quantity
}

func (s *Selection) Increment() int {
	return s.SetQuantity(s.quantity + 1)
}

func (s *Selection) Decrement() int {
	return s.SetQuantity(s.quantity - 1)
}

func (s *Selection) Quantity() int {
	return s.quantity
}

func (s *Selection) Date() *models.EventDate {
	return s.date
}

func (s *Selection) Ticket() *models.TicketType {
	return s.ticket
}

func (s *Selection) Variant() *models.Variant {
	return s.variant
}

func (s *Selection) UnitPrice() decimal.Decimal {
	if s.variant == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(s.variant.Price).Round(2)
}

func (s *Selection) Total() decimal.Decimal {
	return s.UnitPrice().Mul(decimal.NewFromInt(int64(s.quantity)))
}

// Validate reports whether the selection can go to checkout.
func (s *Selection) Validate() error {
	if s.date == nil {
		return ErrDateRequired
	}
	if s.variant == nil {
		return ErrVariantRequired
	}
	return nil
}

func (s *Selection) Items() []models.CheckoutItemInput {
	if s.Validate() != nil {
		return nil
	}
	return []models.CheckoutItemInput{{
		EventDateID:  s.date.ID,
		TicketTypeID: s.variant.ID,
		Quantity:     s.quantity,
	}}
}

// FromRequest builds a selection from a submitted checkout request.
func FromRequest(event *models.Event, req models.CheckoutRequest) (*Selection, error) {
	s := NewSelection(event)
	if req.DateID != "" {
		if err := s.SelectDate(req.DateID); err != nil {
			return nil, err
		}
	}
	if err := s.SelectVariant(req.VariantID); err != nil {
		return nil, err
	}
	if req.Quantity > 0 {
		s.SetQuantity(req.Quantity)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
