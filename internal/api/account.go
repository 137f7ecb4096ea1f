package api

import (
	"fmt"
	"net/http"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/models"
	"ms-storefront/internal/session"
	"ms-storefront/internal/wallet"

	"github.com/go-chi/chi/v5"
)

type sessionView struct {
	SessionID string      `json:"sessionId"`
	User      models.User `json:"user"`
}

// TicketView is a wallet ticket with what the wallet screen derives from it.
type TicketView struct {
	models.WalletTicket
	Status   string `json:"status"`
	LongDate string `json:"longDate"`
}

func (h *Handler) startSession(w http.ResponseWriter, s *session.Store, status int, message string) {
	user, _ := s.User()
	w.Header().Set(auth.SessionHeader, s.ID())
	h.ok(w, status, message, sessionView{SessionID: s.ID(), User: user})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if err := h.decode(r, &in); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	s, err := h.Sessions.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		h.fail(w, r, err, "Erro ao fazer login.")
		return
	}
	h.Logger.LogSecurity("LOGIN", fmt.Sprintf("Session %s opened", s.ID()))
	h.startSession(w, s, http.StatusOK, "Login realizado")
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := h.decode(r, &in); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	s, err := h.Sessions.Register(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "Erro ao criar conta.")
		return
	}
	h.Logger.LogSecurity("REGISTER", fmt.Sprintf("Session %s opened", s.ID()))
	h.startSession(w, s, http.StatusCreated, "Conta criada")
}

// Logout always succeeds, also for unknown or missing sessions.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if id, err := auth.ExtractSessionID(r); err == nil {
		h.Sessions.Logout(r.Context(), id)
		h.Logger.LogSecurity("LOGOUT", fmt.Sprintf("Session %s closed", id))
	}
	h.ok(w, http.StatusOK, "Sessão encerrada", nil)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, err := h.store(r)
	if err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	if r.URL.Query().Get("refresh") == "true" {
		s.RefreshUser(r.Context())
	}
	user, _ := s.User()
	h.ok(w, http.StatusOK, "Usuário carregado", user)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	s, err := h.store(r)
	if err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	var in models.ProfileUpdate
	if err := h.decode(r, &in); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	user, err := s.UpdateProfile(in)
	if err != nil {
		h.fail(w, r, err, "Erro ao atualizar perfil.")
		return
	}
	h.ok(w, http.StatusOK, "Perfil atualizado", user)
}

func (h *Handler) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	s, err := h.store(r)
	if err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	var in models.PhoneInput
	if err := h.decode(r, &in); err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	if err := s.UpdatePhone(r.Context(), in); err != nil {
		h.fail(w, r, err, "Erro ao atualizar telefone.")
		return
	}
	user, _ := s.User()
	h.ok(w, http.StatusOK, "Telefone atualizado", user)
}

func (h *Handler) ticketView(t models.WalletTicket) TicketView {
	return TicketView{
		WalletTicket: t,
		Status:       wallet.Status(t, h.now()),
		LongDate:     wallet.LongDate(t.Date, h.Location),
	}
}

// MyTickets lists the wallet, narrowed by ?q= when given.
func (h *Handler) MyTickets(w http.ResponseWriter, r *http.Request) {
	s, err := h.store(r)
	if err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	if r.URL.Query().Get("refresh") == "true" {
		s.RefreshTickets(r.Context())
	}
	found := wallet.Search(s.Tickets(), r.URL.Query().Get("q"), h.now())
	views := make([]TicketView, 0, len(found))
	for _, t := range found {
		views = append(views, h.ticketView(t))
	}
	h.ok(w, http.StatusOK, "Ingressos carregados", views)
}

func (h *Handler) walletTicket(r *http.Request) (models.WalletTicket, error) {
	s, err := h.store(r)
	if err != nil {
		return models.WalletTicket{}, err
	}
	t, ok := wallet.Find(s.Tickets(), chi.URLParam(r, "ticketId"))
	if !ok {
		return models.WalletTicket{}, errTicketNotFound
	}
	return t, nil
}

func (h *Handler) MyTicket(w http.ResponseWriter, r *http.Request) {
	t, err := h.walletTicket(r)
	if err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	h.ok(w, http.StatusOK, "Ingresso carregado", h.ticketView(t))
}

func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	t, err := h.walletTicket(r)
	if err != nil {
		h.fail(w, r, err, invalidRequest)
		return
	}
	png, err := h.QR.TicketPNG(t)
	if err != nil {
		h.fail(w, r, err, "Não foi possível gerar o QR Code.")
		return
	}
	writePNG(w, png)
}
