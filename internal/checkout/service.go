package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/monitoring"
	"ms-storefront/internal/payment"
	"ms-storefront/internal/sse"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

var ErrSessionNotFound = errors.New("checkout session not found")

type EventLookup interface {
	Event(ctx context.Context, id string) (*models.Event, error)
}

type PreviewSource interface {
	CheckoutPreview(ctx context.Context, items []models.CheckoutItemInput) (*models.CheckoutPreview, error)
}

// WalletRefresher reloads the tickets of the storefront session that paid.
type WalletRefresher interface {
	RefreshTickets(ctx context.Context, sessionID string)
}

// Checkout is returned by Preview.
type Checkout struct {
	models.CheckoutPreview
	EventID    string           `json:"eventId"`
	DateID     string           `json:"dateId"`
	VariantID  string           `json:"variantId"`
	TicketName string           `json:"ticketName"`
	Audience   string           `json:"audience"`
	Quantity   int              `json:"quantity"`
	UnitPrice  decimal.Decimal  `json:"unitPrice"`
	Subtotal   decimal.Decimal  `json:"subtotal"`
	Payment    payment.Snapshot `json:"payment"`
	Provider   string           `json:"provider"`
}

// PaidEvent is published once a PIX charge is confirmed.
type PaidEvent struct {
	CheckoutID  string    `json:"checkoutId"`
	EventID     string    `json:"eventId"`
	DateID      string    `json:"dateId"`
	VariantID   string    `json:"variantId"`
	Quantity    int       `json:"quantity"`
	Total       string    `json:"total"`
	Provider    string    `json:"provider"`
	ProviderRef string    `json:"providerRef"`
	PaidAt      time.Time `json:"paidAt"`
}

type entry struct {
	session  *payment.Session
	owner    string
	checkout Checkout
}

type Dependencies struct {
	Events    EventLookup
	Previews  PreviewSource
	Gateway   payment.Gateway
	Scheduler payment.Scheduler
	Clock     clockwork.Clock
	Config    payment.SessionConfig
	Wallets   WalletRefresher
	Emitter   *sse.PaymentEventEmitter
	Publisher kafka.Publisher
	PaidTopic string
	Logger    *logger.Logger

	// ReapInterval is how often abandoned sessions are swept. Zero disables the sweep.
	ReapInterval time.Duration
}

// Service owns the in-memory registry of PIX payment sessions.
type Service struct {
	deps   Dependencies
	logger *logger.Logger

	base   context.Context
	cancel context.CancelFunc
	reaper payment.Stopper

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewService(deps Dependencies) *Service {
	if deps.Publisher == nil {
		deps.Publisher = kafka.NoopPublisher{}
	}
	base, cancel := context.WithCancel(context.Background())
	s := &Service{
		deps:     deps,
		logger:   deps.Logger,
		base:     base,
		cancel:   cancel,
		sessions: make(map[string]*entry),
	}
	if deps.Scheduler != nil && deps.ReapInterval > 0 {
		s.reaper = deps.Scheduler.Every(deps.ReapInterval, func() { s.Reap() })
	}
	return s
}

// Preview prices the selection with the remote API and registers a fresh payment
// session for the returned checkout id.
func (s *Service) Preview(ctx context.Context, req models.CheckoutRequest) (*Checkout, error) {
	event, err := s.deps.Events.Event(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	sel, err := FromRequest(event, req)
	if err != nil {
		return nil, err
	}

	preview, err := s.deps.Previews.CheckoutPreview(ctx, sel.Items())
	if err != nil {
		monitoring.TrackCheckout("preview_failed")
		return nil, fmt.Errorf("checkout preview: %w", err)
	}
	if preview == nil || preview.CheckoutID == "" {
		monitoring.TrackCheckout("preview_failed")
		return nil, payment.ErrCheckoutUnavailable
	}

	out := Checkout{
		CheckoutPreview: *preview,
		EventID:         event.ID,
		DateID:          sel.Date().ID,
		VariantID:       sel.Variant().ID,
		TicketName:      sel.Ticket().Name,
		Audience:        models.AudienceLabel(sel.Variant().Audience),
		Quantity:        sel.Quantity(),
		UnitPrice:       sel.UnitPrice(),
		Subtotal:        sel.Total(),
		Provider:        string(s.deps.Gateway.Provider()),
	}

	owner := auth.SessionID(ctx)
	sessionCtx := auth.WithToken(s.base, auth.TokenFrom(ctx))
	sessionCtx = auth.WithSessionID(sessionCtx, owner)

	e := &entry{owner: owner, checkout: out}
	e.session = payment.NewSession(sessionCtx, preview.CheckoutID, s.deps.Gateway, s.deps.Scheduler, s.deps.Clock, s.deps.Config, s.hooks(e), s.logger)

	s.mu.Lock()
	previous := s.sessions[preview.CheckoutID]
	s.sessions[preview.CheckoutID] = e
	active := len(s.sessions)
	s.mu.Unlock()

	if previous != nil {
		previous.session.Close()
	}
	monitoring.SetActiveSessions(active)
	monitoring.TrackCheckout("preview")
	s.logger.LogCheckout("PREVIEW", preview.CheckoutID, fmt.Sprintf("%dx %s for event %s", out.Quantity, out.TicketName, out.EventID))

	out.Payment = e.session.Snapshot()
	return &out, nil
}

func (s *Service) hooks(e *entry) payment.Hooks {
	return payment.Hooks{
		OnChange: func(snap payment.Snapshot) {
			if s.deps.Emitter != nil {
				s.deps.Emitter.Emit(snap)
			}
		},
		RefreshTickets: func(ctx context.Context) {
			monitoring.TrackCheckout("paid")
			if s.deps.Wallets != nil {
				s.deps.Wallets.RefreshTickets(ctx, e.owner)
			}
			s.publishPaid(ctx, e)
		},
		OnSuccess: func(snap payment.Snapshot) {
			s.release(snap.CheckoutID, e)
		},
	}
}

func (s *Service) publishPaid(ctx context.Context, e *entry) {
	snap := e.session.Snapshot()
	evt := PaidEvent{
		CheckoutID: e.checkout.CheckoutID,
		EventID:    e.checkout.EventID,
		DateID:     e.checkout.DateID,
		VariantID:  e.checkout.VariantID,
		Quantity:   e.checkout.Quantity,
		Total:      e.checkout.Subtotal.StringFixed(2),
		Provider:   e.checkout.Provider,
		PaidAt:     s.deps.Clock.Now().UTC(),
	}
	if snap.Pix != nil {
		evt.ProviderRef = snap.Pix.ProviderRef
	}
	if err := s.deps.Publisher.Publish(ctx, s.deps.PaidTopic, evt.CheckoutID, evt); err != nil {
		s.logger.Warn("CHECKOUT", fmt.Sprintf("Paid event for %s not published: %v", evt.CheckoutID, err))
	}
}

// release drops e from the registry if it is still the session for checkoutID.
func (s *Service) release(checkoutID string, e *entry) {
	s.mu.Lock()
	if s.sessions[checkoutID] == e {
		delete(s.sessions, checkoutID)
	}
	active := len(s.sessions)
	s.mu.Unlock()

	e.session.Close()
	monitoring.SetActiveSessions(active)
}

func (s *Service) lookup(ctx context.Context, checkoutID string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[checkoutID]
	if !ok || e.owner != auth.SessionID(ctx) {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// Pay creates the PIX charge for a previewed checkout and starts polling.
func (s *Service) Pay(ctx context.Context, checkoutID string) (payment.Snapshot, error) {
	if checkoutID == "" {
		return payment.Snapshot{}, payment.ErrCheckoutUnavailable
	}
	e, err := s.lookup(ctx, checkoutID)
	if err != nil {
		return payment.Snapshot{}, err
	}

	err = e.session.Pay()
	if err != nil {
		monitoring.TrackCheckout("pay_failed")
	} else {
		monitoring.TrackCheckout("pix_created")
	}
	return e.session.Snapshot(), err
}

func (s *Service) Snapshot(ctx context.Context, checkoutID string) (payment.Snapshot, error) {
	e, err := s.lookup(ctx, checkoutID)
	if err != nil {
		return payment.Snapshot{}, err
	}
	return e.session.Snapshot(), nil
}

// Checkout returns the priced checkout with its current payment state.
func (s *Service) Checkout(ctx context.Context, checkoutID string) (*Checkout, error) {
	e, err := s.lookup(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	out := e.checkout
	out.Payment = e.session.Snapshot()
	return &out, nil
}

// Subscribe returns a stream of snapshots for checkoutID and the current snapshot.
func (s *Service) Subscribe(ctx context.Context, checkoutID string) (<-chan payment.Snapshot, payment.Snapshot, error) {
	e, err := s.lookup(ctx, checkoutID)
	if err != nil {
		return nil, payment.Snapshot{}, err
	}
	if s.deps.Emitter == nil {
		return nil, payment.Snapshot{}, errors.New("payment events disabled")
	}
	ch := s.deps.Emitter.Subscribe(ctx, checkoutID)
	return ch, e.session.Snapshot(), nil
}

// PixPayload returns the copy-paste code of an active PIX charge.
func (s *Service) PixPayload(ctx context.Context, checkoutID string) (string, error) {
	snap, err := s.Snapshot(ctx, checkoutID)
	if err != nil {
		return "", err
	}
	if snap.Pix == nil || snap.Pix.CopyPaste == "" {
		return "", ErrSessionNotFound
	}
	return snap.Pix.CopyPaste, nil
}

// Close abandons the checkout. Late payment results are ignored.
func (s *Service) Close(ctx context.Context, checkoutID string) error {
	e, err := s.lookup(ctx, checkoutID)
	if err != nil {
		return err
	}
	if e.session.Snapshot().State != payment.StateSuccess {
		monitoring.TrackCheckout("abandoned")
	}
	s.release(checkoutID, e)
	return nil
}

// Reap closes the sessions of buyers who left without closing their checkout:
// idle or failed past the idle TTL, or already closed. It returns how many went.
func (s *Service) Reap() int {
	now := s.deps.Clock.Now()

	s.mu.Lock()
	var stale []*entry
	for id, e := range s.sessions {
		if e.session.Stale(now) {
			stale = append(stale, e)
			delete(s.sessions, id)
		}
	}
	active := len(s.sessions)
	s.mu.Unlock()

	if len(stale) == 0 {
		return 0
	}
	for _, e := range stale {
		e.session.Close()
		monitoring.TrackCheckout("reaped")
	}
	monitoring.SetActiveSessions(active)
	s.logger.Info("CHECKOUT", fmt.Sprintf("Reaped %d abandoned payment sessions", len(stale)))
	return len(stale)
}

func (s *Service) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown closes every live session.
func (s *Service) Shutdown() {
	if s.reaper != nil {
		s.reaper.Stop()
	}
	s.mu.Lock()
	live := make([]*entry, 0, len(s.sessions))
	for id, e := range s.sessions {
		live = append(live, e)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, e := range live {
		e.session.Close()
	}
	s.cancel()
	monitoring.SetActiveSessions(0)
	s.logger.Info("CHECKOUT", fmt.Sprintf("Closed %d payment sessions", len(live)))
}
