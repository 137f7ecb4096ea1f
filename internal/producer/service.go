package producer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-storefront/internal/catalog"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrUnknownStatus = errors.New("unknown event status")
)

// EventAPI is the producer slice of the remote GraphQL API.
type EventAPI interface {
	ProducerEvents(ctx context.Context) ([]models.APIEvent, error)
	Event(ctx context.Context, id string) (*models.APIEvent, error)
	CreateEvent(ctx context.Context, in models.EventInput) (*models.EventRef, error)
	UpdateEvent(ctx context.Context, id string, in models.UpdateEventInput) (*models.EventRef, error)
	PublishEvent(ctx context.Context, id string) (*models.EventRef, error)
	UpdateEventStatus(ctx context.Context, id string, status models.EventStatus) (*models.EventRef, error)
	CreateEventDate(ctx context.Context, eventID string, in models.EventDateInput) (*models.APIEventDate, error)
	CreateLot(ctx context.Context, dateID string, in models.LotInput) (*models.APILot, error)
	CreateTicketType(ctx context.Context, lotID string, in models.TicketTypeInput) (*models.APITicketType, error)
}

// CatalogInvalidator drops cached storefront listings after a producer change.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// DashboardEvent is a producer's event with its publication and sale status.
type DashboardEvent struct {
	models.Event
	Status     string             `json:"status"`
	SaleStatus catalog.SaleStatus `json:"saleStatus"`
	SoldRatio  float64            `json:"soldRatio"`
}

type Service struct {
	api     EventAPI
	catalog CatalogInvalidator
	logger  *logger.Logger
}

func NewService(api EventAPI, catalog CatalogInvalidator, log *logger.Logger) *Service {
	return &Service{api: api, catalog: catalog, logger: log}
}

func (s *Service) Events(ctx context.Context) ([]DashboardEvent, error) {
	list, err := s.api.ProducerEvents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DashboardEvent, 0, len(list))
	for _, api := range list {
		event := catalog.MapAPIEvent(api)
		out = append(out, DashboardEvent{
			Event:      event,
			Status:     api.Status,
			SaleStatus: catalog.GetEventSaleStatus(event),
			SoldRatio:  catalog.SoldRatio(event),
		})
	}
	return out, nil
}

// Event returns the full remote shape, with every date, lot and ticket type, for editing.
func (s *Service) Event(ctx context.Context, id string) (*models.APIEvent, error) {
	event, err := s.api.Event(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func (s *Service) CreateEvent(ctx context.Context, in models.EventInput) (*models.EventRef, error) {
	ref, err := s.api.CreateEvent(ctx, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "CREATE", ref.ID)
	return ref, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id string, in models.UpdateEventInput) (*models.EventRef, error) {
	ref, err := s.api.UpdateEvent(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "UPDATE", id)
	return ref, nil
}

func (s *Service) PublishEvent(ctx context.Context, id string) (*models.EventRef, error) {
	ref, err := s.api.PublishEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "PUBLISH", id)
	return ref, nil
}

func (s *Service) UpdateEventStatus(ctx context.Context, id string, status models.EventStatus) (*models.EventRef, error) {
	switch status {
	case models.EventDraft, models.EventPublished, models.EventPaused, models.EventCancelled:
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownStatus, status)
	}
	ref, err := s.api.UpdateEventStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "STATUS_"+string(status), id)
	return ref, nil
}

func (s *Service) CreateEventDate(ctx context.Context, eventID string, in models.EventDateInput) (*models.APIEventDate, error) {
	date, err := s.api.CreateEventDate(ctx, eventID, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "CREATE_DATE", eventID)
	return date, nil
}

func (s *Service) CreateLot(ctx context.Context, dateID string, in models.LotInput) (*models.APILot, error) {
	if err := checkLotWindow(in); err != nil {
		return nil, err
	}
	lot, err := s.api.CreateLot(ctx, dateID, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "CREATE_LOT", dateID)
	return lot, nil
}

func (s *Service) CreateTicketType(ctx context.Context, lotID string, in models.TicketTypeInput) (*models.APITicketType, error) {
	tt, err := s.api.CreateTicketType(ctx, lotID, in)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, "CREATE_TICKET_TYPE", lotID)
	return tt, nil
}

// ErrLotWindow is returned when a lot ends before it starts.
var ErrLotWindow = errors.New("lot must end after it starts")

func checkLotWindow(in models.LotInput) error {
	starts, err1 := time.Parse(time.RFC3339, in.StartsAt)
	ends, err2 := time.Parse(time.RFC3339, in.EndsAt)
	if err1 != nil || err2 != nil {
		return nil
	}
	if !ends.After(starts) {
		return ErrLotWindow
	}
	return nil
}

func (s *Service) changed(ctx context.Context, action, id string) {
	s.logger.Info("PRODUCER", fmt.Sprintf("[%s] %s", action, id))
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(ctx); err != nil {
		s.logger.Warn("CATALOG", fmt.Sprintf("Cache invalidation after %s failed: %v", action, err))
	}
}
