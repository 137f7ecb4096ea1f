package payment

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type Stopper interface {
	Stop()
}

// Scheduler owns the timers of a payment session.
type Scheduler interface {
	// Every runs fn every d until stopped. Runs may overlap when fn is slow.
	Every(d time.Duration, fn func()) Stopper
	// After runs fn once after d unless stopped first.
	After(d time.Duration, fn func()) Stopper
}

type ClockScheduler struct {
	clock clockwork.Clock
}

func NewClockScheduler(clock clockwork.Clock) *ClockScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ClockScheduler{clock: clock}
}

type tickerHandle struct {
	once sync.Once
	done chan struct{}
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() { close(h.done) })
}

func (s *ClockScheduler) Every(d time.Duration, fn func()) Stopper {
	ticker := s.clock.NewTicker(d)
	h := &tickerHandle{done: make(chan struct{})}
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.done:
				return
			case <-ticker.Chan():
				go fn()
			}
		}
	}()
	return h
}

type timerHandle struct {
	timer clockwork.Timer
}

func (h timerHandle) Stop() {
	h.timer.Stop()
}

func (s *ClockScheduler) After(d time.Duration, fn func()) Stopper {
	return timerHandle{timer: s.clock.AfterFunc(d, fn)}
}
