package qr

import (
	"errors"

	"ms-storefront/internal/models"

	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

var ErrEmptyContent = errors.New("nothing to encode")

// Generator renders PNG QR codes for wallet tickets and PIX charges.
type Generator struct {
	size  int
	level qrcode.RecoveryLevel
}

func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{size: size, level: qrcode.Medium}
}

func (g *Generator) Encode(content string) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	return qrcode.Encode(content, g.level, g.size)
}

// TicketPNG encodes the payload read at the gate. Tickets issued without a
// QR payload fall back to their short code.
func (g *Generator) TicketPNG(ticket models.WalletTicket) ([]byte, error) {
	content := ticket.QRCode
	if content == "" {
		content = ticket.Code
	}
	return g.Encode(content)
}

// PixPNG encodes the copy-and-paste string of a PIX charge.
func (g *Generator) PixPNG(pix *models.PixPayment) ([]byte, error) {
	if pix == nil {
		return nil, ErrEmptyContent
	}
	return g.Encode(pix.CopyPaste)
}
