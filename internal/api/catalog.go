package api

import (
	"net/http"
	"strconv"

	"ms-storefront/internal/catalog"
	"ms-storefront/internal/models"

	"github.com/go-chi/chi/v5"
)

const loadEventsError = "Não foi possível carregar os eventos."

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	events, err := h.Catalog.Events(r.Context(), category)
	if err != nil {
		h.fail(w, r, err, loadEventsError)
		return
	}
	h.ok(w, http.StatusOK, "Eventos carregados", h.Catalog.Cards(events, false))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.Catalog.Event(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		h.fail(w, r, err, "Não foi possível carregar o evento.")
		return
	}
	h.ok(w, http.StatusOK, "Evento carregado", h.Catalog.Cards([]models.Event{*event}, false)[0])
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.Catalog.Home(r.Context())
	if err != nil {
		h.fail(w, r, err, loadEventsError)
		return
	}
	h.ok(w, http.StatusOK, "Home carregada", home)
}

func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = catalog.DefaultMaxSuggestions
	}
	events, err := h.Catalog.Suggestions(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.fail(w, r, err, loadEventsError)
		return
	}
	h.ok(w, http.StatusOK, "Sugestões carregadas", events)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "Categorias carregadas", models.Categories)
}

func (h *Handler) ProducerProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Catalog.ProducerProfile(r.Context(), chi.URLParam(r, "producerId"))
	if err != nil {
		h.fail(w, r, err, "Não foi possível carregar o produtor.")
		return
	}
	h.ok(w, http.StatusOK, "Produtor carregado", profile)
}
