package payment

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"ms-storefront/internal/models"

	"github.com/stripe/stripe-go/v82"
)

// StripeGateway talks to the Stripe Connect endpoints of the payment backend.
type StripeGateway struct {
	rest *RESTClient
}

func NewStripeGateway(rest *RESTClient) *StripeGateway {
	return &StripeGateway{rest: rest}
}

func (g *StripeGateway) Provider() models.PaymentProvider {
	return models.ProviderStripe
}

type stripePix struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	QRCodeURL       string `json:"pixQrCode"`
	CopyPaste       string `json:"pixCopyPaste"`
	ExpiresAt       int64  `json:"expiresAt"`
	Status          string `json:"status"`
}

func (g *StripeGateway) CreatePixPayment(ctx context.Context, orderID string) (*models.PixPayment, error) {
	var res stripePix
	if err := g.rest.do(ctx, http.MethodPost, "/payment/create", map[string]string{"orderId": orderID}, &res); err != nil {
		return nil, err
	}

	pix := &models.PixPayment{
		Provider:    models.ProviderStripe,
		OrderID:     orderID,
		ProviderRef: res.PaymentIntentID,
		CopyPaste:   res.CopyPaste,
		QRCodeURL:   res.QRCodeURL,
		Status:      res.Status,
	}
	if res.ExpiresAt > 0 {
		pix.ExpiresAt = time.Unix(res.ExpiresAt, 0)
	}
	return pix, nil
}

// IntentPaid reports whether a PaymentIntent status means the money arrived.
func IntentPaid(status string) bool {
	return stripe.PaymentIntentStatus(status) == stripe.PaymentIntentStatusSucceeded
}

// IntentCanceled reports whether the intent can no longer be paid.
func IntentCanceled(status string) bool {
	return stripe.PaymentIntentStatus(status) == stripe.PaymentIntentStatusCanceled
}

func (g *StripeGateway) PaymentStatus(ctx context.Context, orderID string) (*models.PaymentStatus, error) {
	var res struct {
		Status          string `json:"status"`
		Paid            bool   `json:"paid"`
		PaymentIntentID string `json:"paymentIntentId"`
		OrderStatus     string `json:"orderStatus"`
	}
	path := "/payment/status?orderId=" + url.QueryEscape(orderID)
	if err := g.rest.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	paid := res.Paid || IntentPaid(res.Status)
	return &models.PaymentStatus{
		Status:      res.Status,
		Paid:        paid,
		Canceled:    !paid && IntentCanceled(res.Status),
		ProviderRef: res.PaymentIntentID,
		OrderStatus: res.OrderStatus,
	}, nil
}

func (g *StripeGateway) AccountStatus(ctx context.Context) (*models.PaymentAccountStatus, error) {
	var res struct {
		HasAccount         bool   `json:"hasAccount"`
		AccountID          string `json:"accountId"`
		OnboardingComplete bool   `json:"onboardingComplete"`
		TransfersActive    bool   `json:"transfersActive"`
		DetailsSubmitted   bool   `json:"detailsSubmitted"`
		PayoutsEnabled     bool   `json:"payoutsEnabled"`
		Error              string `json:"error"`
	}
	if err := g.rest.do(ctx, http.MethodGet, "/connect/status", nil, &res); err != nil {
		return nil, err
	}
	return &models.PaymentAccountStatus{
		Provider:           models.ProviderStripe,
		Available:          true,
		HasAccount:         res.HasAccount,
		AccountID:          res.AccountID,
		OnboardingComplete: res.OnboardingComplete,
		TransfersActive:    res.TransfersActive,
		DetailsSubmitted:   res.DetailsSubmitted,
		PayoutsEnabled:     res.PayoutsEnabled,
		Error:              res.Error,
	}, nil
}

type ConnectAccount struct {
	AccountID string `json:"accountId"`
	Message   string `json:"message"`
}

func (g *StripeGateway) CreateAccount(ctx context.Context) (*ConnectAccount, error) {
	var res ConnectAccount
	if err := g.rest.do(ctx, http.MethodPost, "/connect/create-account", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// OnboardingLink returns the hosted onboarding URL for the producer.
func (g *StripeGateway) OnboardingLink(ctx context.Context) (string, error) {
	var res struct {
		URL string `json:"url"`
	}
	if err := g.rest.do(ctx, http.MethodPost, "/connect/onboarding-link", nil, &res); err != nil {
		return "", err
	}
	return res.URL, nil
}

// UpdatePixKey changes the payout PIX key. The backend requires every event to be paused first.
func (g *StripeGateway) UpdatePixKey(ctx context.Context, req models.PixKeyRequest) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	if err := g.rest.do(ctx, http.MethodPost, "/connect/pix-key", req, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}
