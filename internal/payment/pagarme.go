package payment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ms-storefront/internal/models"
)

type PagarmeGateway struct {
	rest *RESTClient
}

func NewPagarmeGateway(rest *RESTClient) *PagarmeGateway {
	return &PagarmeGateway{rest: rest}
}

func (g *PagarmeGateway) Provider() models.PaymentProvider {
	return models.ProviderPagarme
}

type pagarmePix struct {
	OrderID   string `json:"pagarmeOrderId"`
	ChargeID  string `json:"pagarmeChargeId"`
	QRCode    string `json:"pixQrCode"`
	QRCodeURL string `json:"pixQrCodeUrl"`
	ExpiresAt string `json:"expiresAt"`
	Status    string `json:"status"`
}

func (g *PagarmeGateway) CreatePixPayment(ctx context.Context, orderID string) (*models.PixPayment, error) {
	var res pagarmePix
	if err := g.rest.do(ctx, http.MethodPost, "/payment/create", map[string]string{"orderId": orderID}, &res); err != nil {
		return nil, err
	}

	pix := &models.PixPayment{
		Provider:    models.ProviderPagarme,
		OrderID:     orderID,
		ProviderRef: res.OrderID,
		ChargeRef:   res.ChargeID,
		CopyPaste:   res.QRCode,
		QRCodeURL:   res.QRCodeURL,
		Status:      res.Status,
	}
	if res.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339Nano, res.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("invalid expiresAt %q: %w", res.ExpiresAt, err)
		}
		pix.ExpiresAt = expiresAt
	}
	return pix, nil
}

func (g *PagarmeGateway) PaymentStatus(ctx context.Context, orderID string) (*models.PaymentStatus, error) {
	var res struct {
		Status         string `json:"status"`
		Paid           bool   `json:"paid"`
		PagarmeOrderID string `json:"pagarmeOrderId"`
		OrderStatus    string `json:"orderStatus"`
	}
	path := "/payment/status?orderId=" + url.QueryEscape(orderID)
	if err := g.rest.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &models.PaymentStatus{
		Status:      res.Status,
		Paid:        res.Paid,
		ProviderRef: res.PagarmeOrderID,
		OrderStatus: res.OrderStatus,
	}, nil
}

func (g *PagarmeGateway) AccountStatus(ctx context.Context) (*models.PaymentAccountStatus, error) {
	var res struct {
		HasRecipient       bool   `json:"hasRecipient"`
		RecipientID        string `json:"recipientId"`
		OnboardingComplete bool   `json:"onboardingComplete"`
		Status             string `json:"status"`
		Name               string `json:"name"`
		Error              string `json:"error"`
	}
	if err := g.rest.do(ctx, http.MethodGet, "/recipient/status", nil, &res); err != nil {
		return nil, err
	}
	return &models.PaymentAccountStatus{
		Provider:           models.ProviderPagarme,
		Available:          true,
		HasAccount:         res.HasRecipient,
		AccountID:          res.RecipientID,
		OnboardingComplete: res.OnboardingComplete,
		Status:             res.Status,
		Name:               res.Name,
		Error:              res.Error,
	}, nil
}

// CreateRecipient registers the producer's bank account with Pagar.me.
func (g *PagarmeGateway) CreateRecipient(ctx context.Context, req models.CreateRecipientRequest) (*models.CreateRecipientResponse, error) {
	var res models.CreateRecipientResponse
	if err := g.rest.do(ctx, http.MethodPost, "/recipient/create", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
