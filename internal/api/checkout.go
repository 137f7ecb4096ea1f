package api

import (
	"fmt"
	"net/http"

	"ms-storefront/internal/models"
	"ms-storefront/internal/sse"

	"github.com/go-chi/chi/v5"
)

const checkoutError = "Não foi possível processar o checkout."

func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	c, err := h.Checkouts.Preview(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, checkoutError)
		return
	}
	h.Logger.LogCheckout("PREVIEW", c.CheckoutID, fmt.Sprintf("%d x %s", c.Quantity, c.TicketName))
	h.ok(w, http.StatusCreated, "Checkout criado", c)
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	c, err := h.Checkouts.Checkout(r.Context(), chi.URLParam(r, "checkoutId"))
	if err != nil {
		h.fail(w, r, err, checkoutError)
		return
	}
	h.ok(w, http.StatusOK, "Checkout carregado", c)
}

// PayCheckout creates the PIX charge. Polling continues in the background and
// is observed through GetCheckout or CheckoutEvents.
func (h *Handler) PayCheckout(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Checkouts.Pay(r.Context(), chi.URLParam(r, "checkoutId"))
	if err != nil {
		h.fail(w, r, err, "Erro ao gerar pagamento PIX.")
		return
	}
	h.ok(w, http.StatusOK, "PIX gerado", snap)
}

func (h *Handler) CheckoutEvents(w http.ResponseWriter, r *http.Request) {
	ch, initial, err := h.Checkouts.Subscribe(r.Context(), chi.URLParam(r, "checkoutId"))
	if err != nil {
		h.fail(w, r, err, checkoutError)
		return
	}
	if err := sse.Stream(w, r, initial, ch, h.Heartbeat); err != nil {
		h.Logger.Debug("SSE", fmt.Sprintf("Stream for %s ended: %v", initial.CheckoutID, err))
	}
}

func (h *Handler) CheckoutQR(w http.ResponseWriter, r *http.Request) {
	payload, err := h.Checkouts.PixPayload(r.Context(), chi.URLParam(r, "checkoutId"))
	if err != nil {
		h.fail(w, r, err, checkoutError)
		return
	}
	png, err := h.QR.Encode(payload)
	if err != nil {
		h.fail(w, r, err, "Não foi possível gerar o QR Code.")
		return
	}
	writePNG(w, png)
}

func (h *Handler) CloseCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.Checkouts.Close(r.Context(), chi.URLParam(r, "checkoutId")); err != nil {
		h.fail(w, r, err, checkoutError)
		return
	}
	h.ok(w, http.StatusOK, "Checkout encerrado", nil)
}
