package api

import (
	"net/http"
	"time"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	invalidRequest   = "Requisição inválida."
	defaultHeartbeat = 15 * time.Second
)

// Router wires every storefront route. Routes under the session group need an
// X-Session-ID header naming a live session.
func (h *Handler) Router() http.Handler {
	if h.Heartbeat <= 0 {
		h.Heartbeat = defaultHeartbeat
	}
	if h.Location == nil {
		h.Location = time.Local
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		h.ok(w, http.StatusOK, "ok", nil)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", h.ListEvents)
		r.Get("/events/{eventId}", h.GetEvent)
		r.Get("/home", h.Home)
		r.Get("/search/suggestions", h.Suggestions)
		r.Get("/categories", h.Categories)
		r.Get("/producers/{producerId}", h.ProducerProfile)

		r.Post("/auth/login", h.Login)
		r.Post("/auth/register", h.Register)
		r.Post("/auth/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(h.Sessions))

			r.Route("/me", func(r chi.Router) {
				r.Get("/", h.Me)
				r.Patch("/", h.UpdateProfile)
				r.Put("/phone", h.UpdatePhone)
				r.Get("/tickets", h.MyTickets)
				r.Get("/tickets/{ticketId}", h.MyTicket)
				r.Get("/tickets/{ticketId}/qr.png", h.TicketQR)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", h.CreateCheckout)
				r.Get("/{checkoutId}", h.GetCheckout)
				r.Delete("/{checkoutId}", h.CloseCheckout)
				r.Post("/{checkoutId}/pix", h.PayCheckout)
				r.Get("/{checkoutId}/events", h.CheckoutEvents)
				r.Get("/{checkoutId}/qr.png", h.CheckoutQR)
			})

			r.Route("/producer", func(r chi.Router) {
				r.Get("/events", h.ProducerEvents)
				r.Post("/events", h.CreateEvent)
				r.Get("/events/{eventId}", h.ProducerEvent)
				r.Patch("/events/{eventId}", h.UpdateEvent)
				r.Post("/events/{eventId}/publish", h.PublishEvent)
				r.Put("/events/{eventId}/status", h.UpdateEventStatus)
				r.Post("/events/{eventId}/dates", h.CreateEventDate)
				r.Post("/dates/{dateId}/lots", h.CreateLot)
				r.Post("/lots/{lotId}/ticket-types", h.CreateTicketType)

				r.Post("/events/{eventId}/scan", h.ScanTicket)
				r.Get("/events/{eventId}/scan", h.ScanSummary)
				r.Delete("/events/{eventId}/scan", h.ResetScans)

				r.Get("/payments/status", h.PaymentStatus)
				r.Post("/payments/recipient", h.CreateRecipient)
				r.Post("/payments/account", h.CreatePaymentAccount)
				r.Post("/payments/onboarding-link", h.OnboardingLink)
				r.Put("/payments/pix-key", h.UpdatePixKey)
			})
		})
	})
	return r
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.LogAPI(r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}
