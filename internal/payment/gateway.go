package payment

import (
	"context"

	"ms-storefront/internal/models"
)

// Gateway is one PIX payment backend. Exactly one is active per deployment.
type Gateway interface {
	Provider() models.PaymentProvider
	CreatePixPayment(ctx context.Context, orderID string) (*models.PixPayment, error)
	PaymentStatus(ctx context.Context, orderID string) (*models.PaymentStatus, error)
	AccountStatus(ctx context.Context) (*models.PaymentAccountStatus, error)
}

// New returns the gateway for provider, defaulting to Pagar.me.
func New(provider models.PaymentProvider, rest *RESTClient) Gateway {
	if provider == models.ProviderStripe {
		return NewStripeGateway(rest)
	}
	return NewPagarmeGateway(rest)
}
