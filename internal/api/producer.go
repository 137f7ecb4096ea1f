package api

import (
	"net/http"

	"ms-storefront/internal/models"

	"github.com/go-chi/chi/v5"
)

const (
	dashboardError = "Não foi possível atualizar o evento."
	paymentsError  = "Não foi possível falar com o provedor de pagamento."
	scanError      = "Não foi possível validar o ingresso."
)

type statusRequest struct {
	Status models.EventStatus `json:"status" validate:"required"`
}

type scanRequest struct {
	QRCode        string `json:"qrCode" validate:"required"`
	ScanSessionID string `json:"scanSessionId" validate:"required"`
}

type scanSummary struct {
	ScanCount int                 `json:"scanCount"`
	Recent    []models.ScanRecord `json:"recent"`
}

func (h *Handler) ProducerEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Dashboard.Events(r.Context())
	if err != nil {
		h.fail(w, r, err, loadEventsError)
		return
	}
	h.ok(w, http.StatusOK, "Eventos carregados", events)
}

func (h *Handler) ProducerEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.Dashboard.Event(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		h.fail(w, r, err, loadEventsError)
		return
	}
	h.ok(w, http.StatusOK, "Evento carregado", event)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in models.EventInput
	if err := h.decode(r, &in); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	ref, err := h.Dashboard.CreateEvent(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "Não foi possível criar o evento.")
		return
	}
	h.ok(w, http.StatusCreated, "Evento criado", ref)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var in models.UpdateEventInput
	if err := h.decode(r, &in); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	ref, err := h.Dashboard.UpdateEvent(r.Context(), chi.URLParam(r, "eventId"), in)
	if err != nil {
		h.fail(w, r, err, dashboardError)
		return
	}
	h.ok(w, http.StatusOK, "Evento atualizado", ref)
}

func (h *Handler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	ref, err := h.Dashboard.PublishEvent(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		h.fail(w, r, err, "Não foi possível publicar o evento.")
		return
	}
	h.ok(w, http.StatusOK, "Evento publicado", ref)
}

func (h *Handler) UpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	var in statusRequest
	if err := h.decode(r, &in); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	ref, err := h.Dashboard.UpdateEventStatus(r.Context(), chi.URLParam(r, "eventId"), in.Status)
	if err != nil {
		h.fail(w, r, err, dashboardError)
		return
	}
	h.ok(w, http.StatusOK, "Status atualizado", ref)
}

func (h *Handler) CreateEventDate(w http.ResponseWriter, r *http.Request) {
	var in models.EventDateInput
	if err := h.decode(r, &in); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	date, err := h.Dashboard.CreateEventDate(r.Context(), chi.URLParam(r, "eventId"), in)
	if err != nil {
		h.fail(w, r, err, dashboardError)
		return
	}
	h.ok(w, http.StatusCreated, "Data criada", date)
}

func (h *Handler) CreateLot(w http.ResponseWriter, r *http.Request) {
	var in models.LotInput
	if err := h.decode(r, &in); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	lot, err := h.Dashboard.CreateLot(r.Context(), chi.URLParam(r, "dateId"), in)
	if err != nil {
		h.fail(w, r, err, dashboardError)
		return
	}
	h.ok(w, http.StatusCreated, "Lote criado", lot)
}

func (h *Handler) CreateTicketType(w http.ResponseWriter, r *http.Request) {
	var in models.TicketTypeInput
	if err := h.decode(r, &in); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	tt, err := h.Dashboard.CreateTicketType(r.Context(), chi.URLParam(r, "lotId"), in)
	if err != nil {
		h.fail(w, r, err, dashboardError)
		return
	}
	h.ok(w, http.StatusCreated, "Ingresso criado", tt)
}

// PaymentStatus never fails; an unreachable backend is reported in the body.
func (h *Handler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "Status do pagamento", h.Payments.Status(r.Context()))
}

func (h *Handler) CreateRecipient(w http.ResponseWriter, r *http.Request) {
	var in models.CreateRecipientRequest
	if err := h.decode(r, &in); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	res, err := h.Payments.CreateRecipient(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, paymentsError)
		return
	}
	h.ok(w, http.StatusCreated, "Recebedor criado", res)
}

func (h *Handler) CreatePaymentAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := h.Payments.CreateAccount(r.Context())
	if err != nil {
		h.fail(w, r, err, paymentsError)
		return
	}
	h.ok(w, http.StatusCreated, "Conta criada", acc)
}

func (h *Handler) OnboardingLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.Payments.OnboardingLink(r.Context())
	if err != nil {
		h.fail(w, r, err, paymentsError)
		return
	}
	h.ok(w, http.StatusOK, "Link de cadastro", map[string]string{"url": link})
}

func (h *Handler) UpdatePixKey(w http.ResponseWriter, r *http.Request) {
	var in models.PixKeyRequest
	if err := h.decode(r, &in); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	msg, err := h.Payments.UpdatePixKey(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, paymentsError)
		return
	}
	if msg == "" {
		msg = "Chave PIX atualizada"
	}
	h.ok(w, http.StatusOK, msg, nil)
}

func (h *Handler) ScanTicket(w http.ResponseWriter, r *http.Request) {
	var in scanRequest
	if err := h.decode(r, &in); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	outcome, err := h.Scanner.Validate(r.Context(), chi.URLParam(r, "eventId"), in.ScanSessionID, in.QRCode)
	if err != nil {
		h.fail(w, r, err, scanError)
		return
	}
	h.ok(w, http.StatusOK, outcome.Title, outcome)
}

func (h *Handler) ScanSummary(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	count, err := h.Scanner.ScanCount(r.Context(), eventID, r.URL.Query().Get("scanSessionId"))
	if err != nil {
		h.fail(w, r, err, scanError)
		return
	}
	recent, err := h.Scanner.RecentScans(r.Context(), eventID)
	if err != nil {
		h.fail(w, r, err, scanError)
		return
	}
	h.ok(w, http.StatusOK, "Leituras carregadas", scanSummary{ScanCount: count, Recent: recent})
}

func (h *Handler) ResetScans(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if err := h.Scanner.ResetScanSession(r.Context(), eventID, r.URL.Query().Get("scanSessionId")); err != nil {
		h.fail(w, r, err, scanError)
		return
	}
	h.ok(w, http.StatusOK, "Contador zerado", scanSummary{Recent: []models.ScanRecord{}})
}
