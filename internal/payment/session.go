package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/monitoring"

	"github.com/jonboulle/clockwork"
)

var (
	ErrCheckoutUnavailable = errors.New("checkout not available")
	ErrSessionClosed       = errors.New("payment session closed")
	ErrPaymentInProgress   = errors.New("payment already in progress")
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StatePix     State = "pix"
	StateSuccess State = "success"
	StateError   State = "error"
)

type Snapshot struct {
	CheckoutID string             `json:"checkoutId"`
	State      State              `json:"state"`
	Pix        *models.PixPayment `json:"pix,omitempty"`
	TimeLeft   string             `json:"timeLeft,omitempty"`
	Error      string             `json:"error,omitempty"`
}

const (
	PixExpiredMessage  = "O código PIX expirou. Gere um novo código para continuar."
	PixCanceledMessage = "O pagamento foi cancelado. Gere um novo código para continuar."
)

type SessionConfig struct {
	PollInterval  time.Duration
	CountdownTick time.Duration
	SuccessDelay  time.Duration
	// ExpiryGrace is how long polling outlives the charge expiry.
	ExpiryGrace time.Duration
	// IdleTTL bounds how long a session may sit without a live charge.
	IdleTTL time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		PollInterval:  3 * time.Second,
		CountdownTick: time.Second,
		SuccessDelay:  1500 * time.Millisecond,
		ExpiryGrace:   2 * time.Minute,
		IdleTTL:       15 * time.Minute,
	}
}

// Hooks are invoked by the session. OnChange runs with the session lock held and
// must not call back into the Session.
type Hooks struct {
	OnChange       func(Snapshot)
	RefreshTickets func(ctx context.Context)
	OnSuccess      func(Snapshot)
}

// Session drives one PIX checkout: create the charge, count down to its expiry
// and poll until it is paid or the session is closed.
type Session struct {
	checkoutID string
	gateway    Gateway
	sched      Scheduler
	clock      clockwork.Clock
	cfg        SessionConfig
	hooks      Hooks
	logger     *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     State
	pix       *models.PixPayment
	timeLeft  string
	errMsg    string
	gen       uint64
	touched   time.Time
	closed    bool
	notified  bool
	poll      Stopper
	countdown Stopper
	success   Stopper
}

// NewSession prepares an idle session. base carries the buyer's credentials for
// the lifetime of the session and is cancelled by Close.
func NewSession(base context.Context, checkoutID string, gateway Gateway, sched Scheduler, clock clockwork.Clock, cfg SessionConfig, hooks Hooks, log *logger.Logger) *Session {
	ctx, cancel := context.WithCancel(base)
	return &Session{
		checkoutID: checkoutID,
		gateway:    gateway,
		sched:      sched,
		clock:      clock,
		cfg:        cfg,
		hooks:      hooks,
		logger:     log,
		ctx:        ctx,
		cancel:     cancel,
		state:      StateIdle,
		touched:    clock.Now(),
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		CheckoutID: s.checkoutID,
		State:      s.state,
		TimeLeft:   s.timeLeft,
		Error:      s.errMsg,
	}
	if s.pix != nil {
		pix := *s.pix
		snap.Pix = &pix
	}
	return snap
}

func (s *Session) emitLocked() {
	s.touched = s.clock.Now()
	if s.hooks.OnChange != nil {
		s.hooks.OnChange(s.snapshotLocked())
	}
}

// Pay creates the PIX charge. It is allowed from idle, and from error as a retry.
func (s *Session) Pay() error {
	if s.checkoutID == "" {
		return ErrCheckoutUnavailable
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.state != StateIdle && s.state != StateError {
		s.mu.Unlock()
		return ErrPaymentInProgress
	}
	s.state = StateLoading
	s.errMsg = ""
	gen := s.gen
	s.emitLocked()
	s.mu.Unlock()

	s.logger.LogCheckout("PAY", s.checkoutID, fmt.Sprintf("Creating PIX charge via %s", s.gateway.Provider()))
	pix, err := s.gateway.CreatePixPayment(s.ctx, s.checkoutID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return ErrSessionClosed
	}
	if err != nil {
		s.state = StateError
		s.errMsg = err.Error()
		s.emitLocked()
		s.logger.LogCheckout("PAY_FAILED", s.checkoutID, err.Error())
		return err
	}

	s.state = StatePix
	s.pix = pix
	if !pix.ExpiresAt.IsZero() {
		s.tickLocked()
		if s.state == StatePix && s.timeLeft != ExpiredLabel {
			s.countdown = s.sched.Every(s.cfg.CountdownTick, s.tick)
		}
	}
	s.poll = s.sched.Every(s.cfg.PollInterval, s.pollOnce)
	s.emitLocked()
	s.logger.LogCheckout("PIX_READY", s.checkoutID, fmt.Sprintf("Charge %s expires at %s", pix.ProviderRef, pix.ExpiresAt.Format(time.RFC3339)))
	return nil
}

func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StatePix {
		return
	}
	s.tickLocked()
	s.emitLocked()
}

// tickLocked recomputes the label from the absolute expiry so throttled ticks
// never drift.
func (s *Session) tickLocked() {
	s.timeLeft = FormatTimeLeft(s.pix.ExpiresAt.Sub(s.clock.Now()))
	if s.timeLeft == ExpiredLabel && s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
}

func (s *Session) pollOnce() {
	provider := string(s.gateway.Provider())

	s.mu.Lock()
	if s.closed || s.state != StatePix {
		s.mu.Unlock()
		return
	}
	if s.pastExpiryLocked() {
		s.failLocked(PixExpiredMessage)
		s.mu.Unlock()
		monitoring.TrackPoll(provider, "expired")
		s.logger.LogCheckout("PIX_EXPIRED", s.checkoutID, "Charge expired, polling stopped")
		return
	}
	gen := s.gen
	s.mu.Unlock()

	status, err := s.gateway.PaymentStatus(s.ctx, s.checkoutID)
	if err != nil {
		monitoring.TrackPoll(provider, "error")
		s.logger.Debug("POLLER", fmt.Sprintf("Status check for %s failed: %v", s.checkoutID, err))
		return
	}

	s.mu.Lock()
	if s.closed || gen != s.gen || s.state != StatePix {
		s.mu.Unlock()
		monitoring.TrackPoll(provider, "stale")
		return
	}
	if status.Canceled && !status.Paid {
		s.failLocked(PixCanceledMessage)
		s.mu.Unlock()
		monitoring.TrackPoll(provider, "canceled")
		s.logger.LogCheckout("PIX_CANCELED", s.checkoutID, fmt.Sprintf("Backend reported status %s", status.Status))
		return
	}
	if !status.Paid {
		s.mu.Unlock()
		monitoring.TrackPoll(provider, "pending")
		return
	}

	s.state = StateSuccess
	s.gen++
	s.stopTimersLocked()
	s.emitLocked()
	ctx := s.ctx
	s.mu.Unlock()

	monitoring.TrackPoll(provider, "paid")
	s.logger.LogCheckout("PAID", s.checkoutID, "Payment confirmed")

	if s.hooks.RefreshTickets != nil {
		s.hooks.RefreshTickets(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.success = s.sched.After(s.cfg.SuccessDelay, s.fireSuccess)
}

func (s *Session) pastExpiryLocked() bool {
	if s.pix == nil || s.pix.ExpiresAt.IsZero() {
		return false
	}
	return !s.clock.Now().Before(s.pix.ExpiresAt.Add(s.cfg.ExpiryGrace))
}

// failLocked ends the current charge. The buyer may Pay again from error.
func (s *Session) failLocked(msg string) {
	s.state = StateError
	s.errMsg = msg
	s.gen++
	s.stopTimersLocked()
	s.emitLocked()
}

func (s *Session) fireSuccess() {
	s.mu.Lock()
	if s.closed || s.notified {
		s.mu.Unlock()
		return
	}
	s.notified = true
	s.success = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.hooks.OnSuccess != nil {
		s.hooks.OnSuccess(snap)
	}
}

func (s *Session) stopTimersLocked() {
	if s.poll != nil {
		s.poll.Stop()
		s.poll = nil
	}
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	if s.success != nil {
		s.success.Stop()
		s.success = nil
	}
}

// Close stops every timer, cancels in-flight calls and makes late results inert.
// It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.gen++
	s.stopTimersLocked()
	s.cancel()
	s.logger.LogCheckout("CLOSE", s.checkoutID, fmt.Sprintf("Session closed in state %s", s.state))
}

// Stale reports whether the session can be reaped: it is closed, or nothing has
// happened for IdleTTL while it had no live charge to wait on.
func (s *Session) Stale(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	if s.cfg.IdleTTL <= 0 {
		return false
	}
	switch s.state {
	case StateIdle, StateError:
	case StatePix:
		if s.pix != nil && !s.pix.ExpiresAt.IsZero() {
			return false
		}
	default:
		return false
	}
	return now.Sub(s.touched) >= s.cfg.IdleTTL
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
