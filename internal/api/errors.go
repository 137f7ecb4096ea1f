package api

import (
	"errors"
	"net/http"

	"ms-storefront/internal/catalog"
	"ms-storefront/internal/checkout"
	"ms-storefront/internal/graphql"
	"ms-storefront/internal/payment"
	"ms-storefront/internal/producer"
	"ms-storefront/internal/qr"
	"ms-storefront/internal/session"
	"ms-storefront/internal/validation"
)

var errTicketNotFound = errors.New("ticket not found")

var known = []struct {
	err     error
	status  int
	message string
}{
	{session.ErrNotAuthenticated, http.StatusUnauthorized, "Faça login para continuar."},
	{payment.ErrCheckoutUnavailable, http.StatusBadRequest, "Checkout não disponível."},
	{payment.ErrPaymentInProgress, http.StatusConflict, "Pagamento já em andamento."},
	{payment.ErrSessionClosed, http.StatusGone, "Sessão de pagamento encerrada."},
	{checkout.ErrDateRequired, http.StatusBadRequest, "Selecione uma data."},
	{checkout.ErrDateNotFound, http.StatusBadRequest, "Data não encontrada."},
	{checkout.ErrVariantRequired, http.StatusBadRequest, "Selecione um ingresso."},
	{checkout.ErrVariantNotFound, http.StatusBadRequest, "Ingresso não encontrado."},
	{checkout.ErrVariantUnavailable, http.StatusBadRequest, "Ingresso esgotado."},
	{checkout.ErrSessionNotFound, http.StatusNotFound, "Checkout não encontrado."},
	{catalog.ErrEventNotFound, http.StatusNotFound, "Evento não encontrado."},
	{producer.ErrEventNotFound, http.StatusNotFound, "Evento não encontrado."},
	{producer.ErrLotWindow, http.StatusBadRequest, "O lote deve terminar depois de começar."},
	{producer.ErrUnknownStatus, http.StatusBadRequest, "Status de evento inválido."},
	{producer.ErrWrongProvider, http.StatusBadRequest, "Operação indisponível para o provedor de pagamento ativo."},
	{producer.ErrEmptyQRCode, http.StatusBadRequest, "Informe o código do ingresso."},
	{qr.ErrEmptyContent, http.StatusNotFound, "QR Code indisponível."},
	{errTicketNotFound, http.StatusNotFound, "Ingresso não encontrado."},
}

func classify(err error, fallback string) (int, string) {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Message
	}
	var uerr *session.UserError
	if errors.As(err, &uerr) {
		return http.StatusBadRequest, uerr.Message
	}
	for _, k := range known {
		if errors.Is(err, k.err) {
			return k.status, k.message
		}
	}

	// Remote failures: the payment backend's own message is already meant for
	// the buyer, GraphQL errors are not.
	var rerr *payment.RequestError
	if errors.As(err, &rerr) {
		return http.StatusBadGateway, rerr.Message
	}
	var gerr *graphql.RemoteError
	if errors.As(err, &gerr) {
		return http.StatusBadGateway, fallback
	}
	return http.StatusInternalServerError, fallback
}
