package payment_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/payment"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)

type fakeGateway struct {
	mu       sync.Mutex
	createFn func(ctx context.Context) (*models.PixPayment, error)
	statusFn func(ctx context.Context, call int) (*models.PaymentStatus, error)
	calls    int
}

func (g *fakeGateway) Provider() models.PaymentProvider { return models.ProviderPagarme }

func (g *fakeGateway) CreatePixPayment(ctx context.Context, orderID string) (*models.PixPayment, error) {
	return g.createFn(ctx)
}

func (g *fakeGateway) PaymentStatus(ctx context.Context, orderID string) (*models.PaymentStatus, error) {
	g.mu.Lock()
	g.calls++
	call := g.calls
	g.mu.Unlock()
	return g.statusFn(ctx, call)
}

func (g *fakeGateway) AccountStatus(ctx context.Context) (*models.PaymentAccountStatus, error) {
	return &models.PaymentAccountStatus{Provider: models.ProviderPagarme, Available: true}, nil
}

func pixExpiringIn(d time.Duration) func(context.Context) (*models.PixPayment, error) {
	return func(context.Context) (*models.PixPayment, error) {
		return &models.PixPayment{
			Provider:    models.ProviderPagarme,
			OrderID:     "chk-1",
			ProviderRef: "or_123",
			CopyPaste:   "00020126...",
			ExpiresAt:   t0.Add(d),
			Status:      "pending",
		}, nil
	}
}

func unpaid(context.Context, int) (*models.PaymentStatus, error) {
	return &models.PaymentStatus{Status: "pending"}, nil
}

type harness struct {
	clock   clockwork.FakeClock
	sched   *manualScheduler
	gateway *fakeGateway
	session *payment.Session

	refreshes atomic.Int32
	successes atomic.Int32
	mu        sync.Mutex
	states    []payment.State
}

func newHarness(t *testing.T, checkoutID string, gw *fakeGateway) *harness {
	h := &harness{
		clock:   clockwork.NewFakeClockAt(t0),
		sched:   &manualScheduler{},
		gateway: gw,
	}
	hooks := payment.Hooks{
		OnChange: func(s payment.Snapshot) {
			h.mu.Lock()
			h.states = append(h.states, s.State)
			h.mu.Unlock()
		},
		RefreshTickets: func(context.Context) { h.refreshes.Add(1) },
		OnSuccess:      func(payment.Snapshot) { h.successes.Add(1) },
	}
	h.session = payment.NewSession(context.Background(), checkoutID, gw, h.sched, h.clock,
		payment.DefaultSessionConfig(), hooks, logger.NewConsoleLogger(nil))
	t.Cleanup(h.session.Close)
	return h
}

func (h *harness) poll() *manualTimer      { return h.sched.repeating(3 * time.Second) }
func (h *harness) countdown() *manualTimer { return h.sched.repeating(time.Second) }

func TestPayRequiresCheckoutID(t *testing.T) {
	h := newHarness(t, "", &fakeGateway{createFn: pixExpiringIn(time.Minute), statusFn: unpaid})

	err := h.session.Pay()

	assert.ErrorIs(t, err, payment.ErrCheckoutUnavailable)
	assert.Equal(t, payment.StateIdle, h.session.Snapshot().State)
	assert.Empty(t, h.states)
}

func TestCountdownFromAbsoluteExpiry(t *testing.T) {
	h := newHarness(t, "chk-1", &fakeGateway{createFn: pixExpiringIn(90 * time.Second), statusFn: unpaid})

	require.NoError(t, h.session.Pay())
	snap := h.session.Snapshot()
	assert.Equal(t, payment.StatePix, snap.State)
	assert.Equal(t, "1:30", snap.TimeLeft)
	require.NotNil(t, snap.Pix)
	assert.Equal(t, "00020126...", snap.Pix.CopyPaste)

	// Ticks are throttled: a single tick after 30s still shows the true remaining time.
	h.clock.Advance(30 * time.Second)
	h.sched.fire(h.countdown())
	assert.Equal(t, "1:00", h.session.Snapshot().TimeLeft)

	h.sched.fire(h.poll())
	h.sched.fire(h.poll())

	h.clock.Advance(59 * time.Second)
	h.sched.fire(h.countdown())
	assert.Equal(t, "0:01", h.session.Snapshot().TimeLeft)

	h.clock.Advance(time.Second)
	h.sched.fire(h.countdown())
	assert.Equal(t, payment.ExpiredLabel, h.session.Snapshot().TimeLeft)
	assert.Equal(t, 1, h.countdown().Stops())
	assert.Equal(t, 0, h.poll().Stops(), "polling continues after the code expires")
	assert.Equal(t, payment.StatePix, h.session.Snapshot().State)
}

func TestExpiredChargeStopsPollingAfterGrace(t *testing.T) {
	h := newHarness(t, "chk-1", &fakeGateway{createFn: pixExpiringIn(90 * time.Second), statusFn: unpaid})
	require.NoError(t, h.session.Pay())
	poll := h.poll()

	h.clock.Advance(90*time.Second + time.Minute)
	h.sched.fire(h.countdown())
	h.sched.fire(poll)
	assert.Equal(t, payment.StatePix, h.session.Snapshot().State, "still inside the grace period")
	assert.Equal(t, 1, h.gateway.calls)

	h.clock.Advance(2 * time.Hour)
	for i := 0; i < 5; i++ {
		h.sched.fire(poll)
	}

	snap := h.session.Snapshot()
	assert.Equal(t, payment.StateError, snap.State)
	assert.Equal(t, payment.PixExpiredMessage, snap.Error)
	assert.Equal(t, 1, poll.Stops())
	assert.Equal(t, 1, h.gateway.calls)
	assert.Equal(t, int32(0), h.refreshes.Load())

	h.gateway.createFn = pixExpiringIn(3 * time.Hour)
	require.NoError(t, h.session.Pay(), "a new charge can be created after expiry")
	assert.Equal(t, payment.StatePix, h.session.Snapshot().State)
}

func TestCanceledChargeEndsInError(t *testing.T) {
	gw := &fakeGateway{
		createFn: pixExpiringIn(10 * time.Minute),
		statusFn: func(context.Context, int) (*models.PaymentStatus, error) {
			return &models.PaymentStatus{Status: "canceled", Canceled: true}, nil
		},
	}
	h := newHarness(t, "chk-1", gw)
	require.NoError(t, h.session.Pay())

	h.sched.fire(h.poll())

	snap := h.session.Snapshot()
	assert.Equal(t, payment.StateError, snap.State)
	assert.Equal(t, payment.PixCanceledMessage, snap.Error)
	assert.Equal(t, 1, h.poll().Stops())
	assert.Equal(t, 1, h.countdown().Stops())
	assert.Empty(t, h.sched.pendingOnce())
}

func TestStaleAfterIdleTTL(t *testing.T) {
	h := newHarness(t, "chk-1", &fakeGateway{createFn: pixExpiringIn(10 * time.Minute), statusFn: unpaid})
	ttl := payment.DefaultSessionConfig().IdleTTL

	assert.False(t, h.session.Stale(t0.Add(ttl-time.Second)))
	assert.True(t, h.session.Stale(t0.Add(ttl)))

	require.NoError(t, h.session.Pay())
	assert.False(t, h.session.Stale(t0.Add(10*ttl)), "a live charge is never idle")

	h.session.Close()
	assert.True(t, h.session.Stale(t0))
}

func TestThreeUnpaidThenPaidRefreshesOnce(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	gw := &fakeGateway{
		createFn: pixExpiringIn(10 * time.Minute),
		statusFn: func(ctx context.Context, call int) (*models.PaymentStatus, error) {
			switch {
			case call <= 3:
				return &models.PaymentStatus{Status: "pending"}, nil
			case call == 4:
				close(entered)
				<-release
				return &models.PaymentStatus{Status: "paid", Paid: true}, nil
			default:
				return &models.PaymentStatus{Status: "paid", Paid: true}, nil
			}
		},
	}
	h := newHarness(t, "chk-1", gw)
	require.NoError(t, h.session.Pay())
	poll := h.poll()
	countdown := h.countdown()

	for i := 0; i < 3; i++ {
		h.sched.fire(poll)
	}
	assert.Equal(t, payment.StatePix, h.session.Snapshot().State)

	// A slow request is still in flight when the next tick confirms payment.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		poll.fn()
	}()
	<-entered

	h.sched.fire(poll)
	assert.Equal(t, payment.StateSuccess, h.session.Snapshot().State)
	assert.Equal(t, int32(1), h.refreshes.Load())

	close(release)
	wg.Wait()
	poll.fn()

	assert.Equal(t, int32(1), h.refreshes.Load())
	assert.Equal(t, 1, poll.Stops())
	assert.Equal(t, 1, countdown.Stops())

	pending := h.sched.pendingOnce()
	require.Len(t, pending, 1)
	assert.Equal(t, 1500*time.Millisecond, pending[0].interval)
	assert.Equal(t, int32(0), h.successes.Load(), "success waits for the delay")

	h.sched.fire(pending[0])
	pending[0].fn()
	assert.Equal(t, int32(1), h.successes.Load())
}

func TestCloseDuringSuccessDelayCancelsCallback(t *testing.T) {
	gw := &fakeGateway{
		createFn: pixExpiringIn(10 * time.Minute),
		statusFn: func(context.Context, int) (*models.PaymentStatus, error) {
			return &models.PaymentStatus{Paid: true}, nil
		},
	}
	h := newHarness(t, "chk-1", gw)
	require.NoError(t, h.session.Pay())
	h.sched.fire(h.poll())

	pending := h.sched.pendingOnce()
	require.Len(t, pending, 1)

	h.session.Close()
	h.session.Close()

	assert.Equal(t, 1, pending[0].Stops())
	pending[0].fn()
	assert.Equal(t, int32(0), h.successes.Load())
	assert.True(t, h.session.Closed())
}

func TestPollFailuresAreSwallowed(t *testing.T) {
	gw := &fakeGateway{
		createFn: pixExpiringIn(10 * time.Minute),
		statusFn: func(_ context.Context, call int) (*models.PaymentStatus, error) {
			if call < 3 {
				return nil, errors.New("connection reset")
			}
			return &models.PaymentStatus{Paid: true}, nil
		},
	}
	h := newHarness(t, "chk-1", gw)
	require.NoError(t, h.session.Pay())

	h.sched.fire(h.poll())
	h.sched.fire(h.poll())
	snap := h.session.Snapshot()
	assert.Equal(t, payment.StatePix, snap.State)
	assert.Empty(t, snap.Error)

	h.sched.fire(h.poll())
	assert.Equal(t, payment.StateSuccess, h.session.Snapshot().State)
}

func TestCreateFailureAllowsRetry(t *testing.T) {
	attempts := 0
	gw := &fakeGateway{statusFn: unpaid}
	gw.createFn = func(ctx context.Context) (*models.PixPayment, error) {
		attempts++
		if attempts == 1 {
			return nil, &payment.RequestError{StatusCode: 422, Message: "Pedido expirado"}
		}
		return pixExpiringIn(time.Minute)(ctx)
	}
	h := newHarness(t, "chk-1", gw)

	err := h.session.Pay()
	require.Error(t, err)
	snap := h.session.Snapshot()
	assert.Equal(t, payment.StateError, snap.State)
	assert.Equal(t, "Pedido expirado", snap.Error)
	assert.Nil(t, h.poll())

	require.NoError(t, h.session.Pay())
	assert.Equal(t, payment.StatePix, h.session.Snapshot().State)
	assert.Empty(t, h.session.Snapshot().Error)
	assert.ErrorIs(t, h.session.Pay(), payment.ErrPaymentInProgress)

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, []payment.State{
		payment.StateLoading, payment.StateError,
		payment.StateLoading, payment.StatePix,
	}, h.states)
}

func TestCloseWhileCreatingDiscardsResult(t *testing.T) {
	started := make(chan struct{})
	gw := &fakeGateway{statusFn: unpaid}
	gw.createFn = func(ctx context.Context) (*models.PixPayment, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	h := newHarness(t, "chk-1", gw)

	result := make(chan error, 1)
	go func() { result <- h.session.Pay() }()
	<-started
	h.session.Close()

	assert.ErrorIs(t, <-result, payment.ErrSessionClosed)
	assert.Nil(t, h.poll())
	assert.Equal(t, payment.StateLoading, h.session.Snapshot().State)
}

func TestFormatTimeLeft(t *testing.T) {
	assert.Equal(t, "1:30", payment.FormatTimeLeft(90*time.Second))
	assert.Equal(t, "1:29", payment.FormatTimeLeft(89999*time.Millisecond))
	assert.Equal(t, "10:05", payment.FormatTimeLeft(605*time.Second))
	assert.Equal(t, "0:01", payment.FormatTimeLeft(time.Second))
	assert.Equal(t, payment.ExpiredLabel, payment.FormatTimeLeft(500*time.Millisecond))
	assert.Equal(t, payment.ExpiredLabel, payment.FormatTimeLeft(0))
	assert.Equal(t, payment.ExpiredLabel, payment.FormatTimeLeft(-time.Minute))
}
