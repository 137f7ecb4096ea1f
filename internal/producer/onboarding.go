package producer

import (
	"context"
	"errors"
	"fmt"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/payment"
)

// ErrWrongProvider is returned for an onboarding step of the inactive backend.
var ErrWrongProvider = errors.New("operation not supported by the active payment provider")

// Onboarding sets a producer up to receive payouts on the active backend.
type Onboarding struct {
	gateway payment.Gateway
	logger  *logger.Logger
}

func NewOnboarding(gateway payment.Gateway, log *logger.Logger) *Onboarding {
	return &Onboarding{gateway: gateway, logger: log}
}

func (o *Onboarding) Provider() models.PaymentProvider {
	return o.gateway.Provider()
}

// Status never fails: a backend that cannot answer is reported as not available.
func (o *Onboarding) Status(ctx context.Context) *models.PaymentAccountStatus {
	status, err := o.gateway.AccountStatus(ctx)
	if err != nil {
		o.logger.Debug("PAYMENT", fmt.Sprintf("Account status unavailable: %v", err))
		return &models.PaymentAccountStatus{
			Provider:  o.gateway.Provider(),
			Available: false,
			Error:     err.Error(),
		}
	}
	return status
}

func (o *Onboarding) pagarme() (*payment.PagarmeGateway, error) {
	gw, ok := o.gateway.(*payment.PagarmeGateway)
	if !ok {
		return nil, ErrWrongProvider
	}
	return gw, nil
}

func (o *Onboarding) stripe() (*payment.StripeGateway, error) {
	gw, ok := o.gateway.(*payment.StripeGateway)
	if !ok {
		return nil, ErrWrongProvider
	}
	return gw, nil
}

func (o *Onboarding) CreateRecipient(ctx context.Context, req models.CreateRecipientRequest) (*models.CreateRecipientResponse, error) {
	gw, err := o.pagarme()
	if err != nil {
		return nil, err
	}
	res, err := gw.CreateRecipient(ctx, req)
	if err != nil {
		return nil, err
	}
	o.logger.Info("PAYMENT", fmt.Sprintf("Recipient %s created (%s)", res.RecipientID, res.Status))
	return res, nil
}

func (o *Onboarding) CreateAccount(ctx context.Context) (*payment.ConnectAccount, error) {
	gw, err := o.stripe()
	if err != nil {
		return nil, err
	}
	return gw.CreateAccount(ctx)
}

func (o *Onboarding) OnboardingLink(ctx context.Context) (string, error) {
	gw, err := o.stripe()
	if err != nil {
		return "", err
	}
	return gw.OnboardingLink(ctx)
}

func (o *Onboarding) UpdatePixKey(ctx context.Context, req models.PixKeyRequest) (string, error) {
	gw, err := o.stripe()
	if err != nil {
		return "", err
	}
	return gw.UpdatePixKey(ctx, req)
}
