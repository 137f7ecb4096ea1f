package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/catalog"
	"ms-storefront/internal/checkout"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/payment"
	"ms-storefront/internal/producer"
	"ms-storefront/internal/qr"
	"ms-storefront/internal/session"
	"ms-storefront/internal/utils"
	"ms-storefront/internal/validation"

	"github.com/jonboulle/clockwork"
)

// Catalog is the public event listing.
type Catalog interface {
	Events(ctx context.Context, category string) ([]models.Event, error)
	Event(ctx context.Context, id string) (*models.Event, error)
	Home(ctx context.Context) (*catalog.HomeView, error)
	Suggestions(ctx context.Context, query string, max int) ([]models.Event, error)
	ProducerProfile(ctx context.Context, producerID string) (*catalog.ProducerProfile, error)
	Cards(events []models.Event, showNew bool) []catalog.EventCard
}

type Checkouts interface {
	Preview(ctx context.Context, req models.CheckoutRequest) (*checkout.Checkout, error)
	Pay(ctx context.Context, checkoutID string) (payment.Snapshot, error)
	Checkout(ctx context.Context, checkoutID string) (*checkout.Checkout, error)
	Subscribe(ctx context.Context, checkoutID string) (<-chan payment.Snapshot, payment.Snapshot, error)
	PixPayload(ctx context.Context, checkoutID string) (string, error)
	Close(ctx context.Context, checkoutID string) error
}

type Dashboard interface {
	Events(ctx context.Context) ([]producer.DashboardEvent, error)
	Event(ctx context.Context, id string) (*models.APIEvent, error)
	CreateEvent(ctx context.Context, in models.EventInput) (*models.EventRef, error)
	UpdateEvent(ctx context.Context, id string, in models.UpdateEventInput) (*models.EventRef, error)
	PublishEvent(ctx context.Context, id string) (*models.EventRef, error)
	UpdateEventStatus(ctx context.Context, id string, status models.EventStatus) (*models.EventRef, error)
	CreateEventDate(ctx context.Context, eventID string, in models.EventDateInput) (*models.APIEventDate, error)
	CreateLot(ctx context.Context, dateID string, in models.LotInput) (*models.APILot, error)
	CreateTicketType(ctx context.Context, lotID string, in models.TicketTypeInput) (*models.APITicketType, error)
}

type Payments interface {
	Provider() models.PaymentProvider
	Status(ctx context.Context) *models.PaymentAccountStatus
	CreateRecipient(ctx context.Context, req models.CreateRecipientRequest) (*models.CreateRecipientResponse, error)
	CreateAccount(ctx context.Context) (*payment.ConnectAccount, error)
	OnboardingLink(ctx context.Context) (string, error)
	UpdatePixKey(ctx context.Context, req models.PixKeyRequest) (string, error)
}

type Scanner interface {
	Validate(ctx context.Context, eventID, scanSessionID, qrCode string) (*models.ScanOutcome, error)
	ScanCount(ctx context.Context, eventID, scanSessionID string) (int, error)
	ResetScanSession(ctx context.Context, eventID, scanSessionID string) error
	RecentScans(ctx context.Context, eventID string) ([]models.ScanRecord, error)
}

// Handler serves the storefront HTTP API.
type Handler struct {
	Catalog   Catalog
	Sessions  *session.Registry
	Checkouts Checkouts
	Dashboard Dashboard
	Payments  Payments
	Scanner   Scanner
	QR        *qr.Generator
	Validator *validation.Validator
	Clock     clockwork.Clock
	Location  *time.Location
	Heartbeat time.Duration
	Logger    *logger.Logger
}

func (h *Handler) ok(w http.ResponseWriter, status int, message string, data interface{}) {
	utils.WriteJSON(w, status, utils.SuccessResponse(message, data))
}

// fail maps err onto a status code and a message the buyer can read. fallback
// is used for errors that carry nothing presentable.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, message := classify(err, fallback)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("API", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
	} else {
		h.Logger.Debug("API", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
	}
	utils.WriteJSON(w, status, utils.ErrorResponse(message, err.Error()))
}

// decode reads a JSON body into dst and checks its validate tags.
func (h *Handler) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return validation.NewError("body", "Corpo da requisição inválido")
	}
	return h.Validator.Struct(dst)
}

// store returns the identity behind the authenticated request.
func (h *Handler) store(r *http.Request) (*session.Store, error) {
	s, ok := h.Sessions.Get(r.Context(), auth.SessionID(r.Context()))
	if !ok {
		return nil, session.ErrNotAuthenticated
	}
	return s, nil
}

func (h *Handler) now() time.Time {
	return h.Clock.Now().In(h.Location)
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
