package producer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-storefront/internal/kafka"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/monitoring"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	defaultTicketName    = "Ingresso"
	defaultRejectMessage = "Código não reconhecido ou já utilizado."
	validTitle           = "Ingresso válido!"
	invalidTitle         = "Ingresso inválido"
	recentScansLimit     = 20
)

var ErrEmptyQRCode = errors.New("qr code is empty")

type TicketValidator interface {
	ValidateTicket(ctx context.Context, eventID, qrCode string) (*models.ValidateTicketResult, error)
}

// ScanRepository persists every validation attempt.
type ScanRepository interface {
	CreateScan(ctx context.Context, rec *models.ScanRecord) error
	CountSuccessful(ctx context.Context, eventID, scanSessionID string) (int, error)
	ClearSession(ctx context.Context, eventID, scanSessionID string) (int64, error)
	RecentScans(ctx context.Context, eventID string, limit int) ([]models.ScanRecord, error)
}

// TicketValidatedEvent is published for every accepted ticket.
type TicketValidatedEvent struct {
	EventID        string    `json:"eventId"`
	TicketID       string    `json:"ticketId"`
	Code           string    `json:"code"`
	HolderName     string    `json:"holderName,omitempty"`
	TicketTypeName string    `json:"ticketTypeName,omitempty"`
	ScanSessionID  string    `json:"scanSessionId"`
	ValidatedAt    time.Time `json:"validatedAt"`
}

type Scanner struct {
	api       TicketValidator
	repo      ScanRepository
	publisher kafka.Publisher
	topic     string
	clock     clockwork.Clock
	logger    *logger.Logger
}

func NewScanner(api TicketValidator, repo ScanRepository, publisher kafka.Publisher, topic string, clock clockwork.Clock, log *logger.Logger) *Scanner {
	if publisher == nil {
		publisher = kafka.NoopPublisher{}
	}
	return &Scanner{api: api, repo: repo, publisher: publisher, topic: topic, clock: clock, logger: log}
}

// Validate checks qrCode against the event remotely, records the attempt and
// returns what the scanner screen should show.
func (s *Scanner) Validate(ctx context.Context, eventID, scanSessionID, qrCode string) (*models.ScanOutcome, error) {
	if qrCode == "" {
		return nil, ErrEmptyQRCode
	}

	result, err := s.api.ValidateTicket(ctx, eventID, qrCode)
	if err != nil {
		s.logger.Warn("SCAN", fmt.Sprintf("Validation of %s for %s failed: %v", qrCode, eventID, err))
		return nil, err
	}

	rec := &models.ScanRecord{
		ID:            uuid.New().String(),
		EventID:       eventID,
		ScanSessionID: scanSessionID,
		QRCode:        qrCode,
		Success:       result.Success,
		ErrorCode:     result.ErrorCode,
		Message:       result.Message,
		ScannedAt:     s.clock.Now().UTC(),
	}
	if t := result.Ticket; t != nil {
		if t.Owner != nil {
			rec.HolderName = t.Owner.Name
		}
		if t.TicketType != nil {
			rec.TicketTypeName = t.TicketType.Name
		}
	}
	if err := s.repo.CreateScan(ctx, rec); err != nil {
		s.logger.Error("DATABASE", fmt.Sprintf("Failed to record scan %s: %v", rec.ID, err))
	}
	monitoring.TrackScan(result.Success)

	outcome := &models.ScanOutcome{Valid: result.Success}
	if result.Success {
		outcome.Title = validTitle
		outcome.Description = fmt.Sprintf("%s validado com sucesso.", displayName(rec))
		s.publishValidated(ctx, rec, result)
	} else {
		outcome.Title = invalidTitle
		outcome.Description = result.Message
		if outcome.Description == "" {
			outcome.Description = defaultRejectMessage
		}
	}

	count, err := s.repo.CountSuccessful(ctx, eventID, scanSessionID)
	if err != nil {
		s.logger.Error("DATABASE", fmt.Sprintf("Failed to count scans for %s: %v", eventID, err))
	}
	outcome.ScanCount = count

	s.logger.Info("SCAN", fmt.Sprintf("%s %s: valid=%t count=%d", eventID, qrCode, result.Success, count))
	return outcome, nil
}

func displayName(rec *models.ScanRecord) string {
	if rec.HolderName != "" {
		return rec.HolderName
	}
	if rec.TicketTypeName != "" {
		return rec.TicketTypeName
	}
	return defaultTicketName
}

func (s *Scanner) publishValidated(ctx context.Context, rec *models.ScanRecord, result *models.ValidateTicketResult) {
	evt := TicketValidatedEvent{
		EventID:        rec.EventID,
		Code:           rec.QRCode,
		HolderName:     rec.HolderName,
		TicketTypeName: rec.TicketTypeName,
		ScanSessionID:  rec.ScanSessionID,
		ValidatedAt:    rec.ScannedAt,
	}
	if result.Ticket != nil {
		evt.TicketID = result.Ticket.ID
		if result.Ticket.Code != "" {
			evt.Code = result.Ticket.Code
		}
	}
	if err := s.publisher.Publish(ctx, s.topic, rec.EventID, evt); err != nil {
		s.logger.Warn("SCAN", fmt.Sprintf("Validated event for %s not published: %v", rec.EventID, err))
	}
}

func (s *Scanner) ScanCount(ctx context.Context, eventID, scanSessionID string) (int, error) {
	return s.repo.CountSuccessful(ctx, eventID, scanSessionID)
}

func (s *Scanner) ResetScanSession(ctx context.Context, eventID, scanSessionID string) error {
	cleared, err := s.repo.ClearSession(ctx, eventID, scanSessionID)
	if err != nil {
		return err
	}
	s.logger.Info("SCAN", fmt.Sprintf("Cleared %d scans of session %s for %s", cleared, scanSessionID, eventID))
	return nil
}

func (s *Scanner) RecentScans(ctx context.Context, eventID string) ([]models.ScanRecord, error) {
	return s.repo.RecentScans(ctx, eventID, recentScansLimit)
}
