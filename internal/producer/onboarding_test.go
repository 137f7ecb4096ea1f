package producer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentBackend(t *testing.T, provider models.PaymentProvider, h http.HandlerFunc) *Onboarding {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	log := logger.NewConsoleLogger(nil)
	rest := payment.NewRESTClient(srv.URL, time.Second, log)
	return NewOnboarding(payment.New(provider, rest), log)
}

func TestStatusFailureMeansUnavailable(t *testing.T) {
	o := paymentBackend(t, models.ProviderPagarme, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Pagar.me não configurado"})
	})

	status := o.Status(context.Background())

	assert.False(t, status.Available)
	assert.Equal(t, models.ProviderPagarme, status.Provider)
	assert.Equal(t, "Pagar.me não configurado", status.Error)
}

func TestPagarmeRecipient(t *testing.T) {
	o := paymentBackend(t, models.ProviderPagarme, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/recipient/status":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"hasRecipient": true, "recipientId": "re_1", "status": "active"})
		case "/recipient/create":
			var req models.CreateRecipientRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "CPF", req.DocumentType)
			_ = json.NewEncoder(w).Encode(map[string]string{"recipientId": "re_1", "status": "registration"})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	res, err := o.CreateRecipient(ctx, models.CreateRecipientRequest{Document: "12345678900", DocumentType: "CPF"})
	require.NoError(t, err)
	assert.Equal(t, "re_1", res.RecipientID)

	status := o.Status(ctx)
	assert.True(t, status.Available)
	assert.True(t, status.HasAccount)

	_, err = o.OnboardingLink(ctx)
	assert.ErrorIs(t, err, ErrWrongProvider)
}

func TestPagarmeStepsRejectedOnStripe(t *testing.T) {
	o := paymentBackend(t, models.ProviderStripe, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://connect.stripe.com/x"})
	})

	_, err := o.CreateRecipient(context.Background(), models.CreateRecipientRequest{})
	assert.ErrorIs(t, err, ErrWrongProvider)

	link, err := o.OnboardingLink(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://connect.stripe.com/x", link)
}
