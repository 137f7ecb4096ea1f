package models

import "time"

type PaymentProvider string

const (
	ProviderPagarme PaymentProvider = "pagarme"
	ProviderStripe  PaymentProvider = "stripe"
)

// PixPayment is the provider-neutral result of creating a PIX charge.
type PixPayment struct {
	Provider    PaymentProvider `json:"provider"`
	OrderID     string          `json:"orderId"`
	ProviderRef string          `json:"providerRef"`
	ChargeRef   string          `json:"chargeRef,omitempty"`
	CopyPaste   string          `json:"copyPaste"`
	QRCodeURL   string          `json:"qrCodeUrl,omitempty"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	Status      string          `json:"status"`
}

type PaymentStatus struct {
	Status      string `json:"status"`
	Paid        bool   `json:"paid"`
	Canceled    bool   `json:"canceled,omitempty"`
	ProviderRef string `json:"providerRef,omitempty"`
	OrderStatus string `json:"orderStatus,omitempty"`
}

// PaymentAccountStatus is the producer's onboarding state with the active backend.
type PaymentAccountStatus struct {
	Provider           PaymentProvider `json:"provider"`
	Available          bool            `json:"available"`
	HasAccount         bool            `json:"hasAccount"`
	AccountID          string          `json:"accountId,omitempty"`
	OnboardingComplete bool            `json:"onboardingComplete"`
	Status             string          `json:"status,omitempty"`
	Name               string          `json:"name,omitempty"`
	TransfersActive    bool            `json:"transfersActive,omitempty"`
	DetailsSubmitted   bool            `json:"detailsSubmitted,omitempty"`
	PayoutsEnabled     bool            `json:"payoutsEnabled,omitempty"`
	Error              string          `json:"error,omitempty"`
}

type CreateRecipientRequest struct {
	Document          string `json:"document" validate:"required"`
	DocumentType      string `json:"documentType" validate:"required,oneof=CPF CNPJ"`
	Type              string `json:"type" validate:"required,oneof=individual company"`
	BankCode          string `json:"bankCode" validate:"required"`
	BranchNumber      string `json:"branchNumber" validate:"required"`
	BranchCheckDigit  string `json:"branchCheckDigit"`
	AccountNumber     string `json:"accountNumber" validate:"required"`
	AccountCheckDigit string `json:"accountCheckDigit" validate:"required"`
	AccountType       string `json:"accountType" validate:"required,oneof=checking savings"`
}

type CreateRecipientResponse struct {
	RecipientID string `json:"recipientId"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

type PixKeyRequest struct {
	PixKey     string `json:"pixKey" validate:"required"`
	PixKeyType string `json:"pixKeyType" validate:"required"`
}
