package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ms-storefront/internal/payment"
)

// PaymentEventEmitter fans payment session snapshots out to SSE clients, keyed by checkout id.
type PaymentEventEmitter struct {
	clients map[string][]chan payment.Snapshot
	mu      sync.RWMutex
}

func NewPaymentEventEmitter() *PaymentEventEmitter {
	return &PaymentEventEmitter{
		clients: make(map[string][]chan payment.Snapshot),
	}
}

// Subscribe registers a client for checkoutID. The channel is closed once ctx is done.
func (e *PaymentEventEmitter) Subscribe(ctx context.Context, checkoutID string) <-chan payment.Snapshot {
	clientChan := make(chan payment.Snapshot, 10)

	e.mu.Lock()
	e.clients[checkoutID] = append(e.clients[checkoutID], clientChan)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.remove(checkoutID, clientChan)
	}()

	return clientChan
}

// Emit never blocks: a client whose buffer is full misses the snapshot.
func (e *PaymentEventEmitter) Emit(snap payment.Snapshot) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, clientChan := range e.clients[snap.CheckoutID] {
		select {
		case clientChan <- snap:
		default:
		}
	}
}

func (e *PaymentEventEmitter) remove(checkoutID string, clientChan chan payment.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clients := e.clients[checkoutID]
	for i, ch := range clients {
		if ch == clientChan {
			e.clients[checkoutID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}

	if len(e.clients[checkoutID]) == 0 {
		delete(e.clients, checkoutID)
	}
}

func (e *PaymentEventEmitter) ClientCount(checkoutID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clients[checkoutID])
}

// Stream writes snapshots from ch as "payment" events until the client leaves or
// the session reaches a terminal state. A keep-alive comment goes out every heartbeat.
func Stream(w http.ResponseWriter, r *http.Request, initial payment.Snapshot, ch <-chan payment.Snapshot, heartbeat time.Duration) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	if err := writeEvent(w, initial); err != nil {
		return err
	}
	flusher.Flush()
	if terminal(initial) {
		return nil
	}

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return nil
		case snap, open := <-ch:
			if !open {
				return nil
			}
			if err := writeEvent(w, snap); err != nil {
				return err
			}
			flusher.Flush()
			if terminal(snap) {
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return err
			}
			flusher.Flush()
		}
	}
}

func terminal(snap payment.Snapshot) bool {
	return snap.State == payment.StateSuccess
}

func writeEvent(w http.ResponseWriter, snap payment.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: payment\ndata: %s\n\n", data)
	return err
}
