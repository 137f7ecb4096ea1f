package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ScanRecord is one QR validation attempt at the event entrance.
type ScanRecord struct {
	bun.BaseModel `bun:"table:scan_records"`

	ID             string    `bun:"id,pk" json:"id"`
	EventID        string    `bun:"event_id,notnull" json:"eventId"`
	ScanSessionID  string    `bun:"scan_session_id,notnull" json:"scanSessionId"`
	QRCode         string    `bun:"qr_code" json:"qrCode"`
	Success        bool      `bun:"success" json:"success"`
	ErrorCode      string    `bun:"error_code,nullzero" json:"errorCode,omitempty"`
	Message        string    `bun:"message,nullzero" json:"message,omitempty"`
	HolderName     string    `bun:"holder_name,nullzero" json:"holderName,omitempty"`
	TicketTypeName string    `bun:"ticket_type_name,nullzero" json:"ticketTypeName,omitempty"`
	ScannedAt      time.Time `bun:"scanned_at,notnull" json:"scannedAt"`
	Cleared        bool      `bun:"cleared" json:"-"`
}

type ValidateTicketResult struct {
	Success   bool   `json:"success"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	Ticket    *struct {
		ID         string `json:"id"`
		Code       string `json:"code"`
		Used       bool   `json:"used"`
		UsedAt     string `json:"usedAt"`
		TicketType *struct {
			Name string `json:"name"`
		} `json:"ticketType"`
		Owner *struct {
			Name string `json:"name"`
		} `json:"owner"`
	} `json:"ticket"`
}

// ScanOutcome is what the scanner screen shows after a read.
type ScanOutcome struct {
	Valid       bool   `json:"valid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ScanCount   int    `json:"scanCount"`
}
