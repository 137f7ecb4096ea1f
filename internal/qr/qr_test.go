package qr_test

import (
	"bytes"
	"image/png"
	"testing"

	"ms-storefront/internal/models"
	"ms-storefront/internal/qr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestTicketPNG(t *testing.T) {
	g := qr.NewGenerator(0)

	data, err := g.TicketPNG(models.WalletTicket{ID: "tk-1", QRCode: "AFTZ-QR-9f2c", Code: "ABC123"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, qr.DefaultSize, img.Bounds().Dx())
}

func TestTicketPNGFallsBackToCode(t *testing.T) {
	g := qr.NewGenerator(128)

	withCode, err := g.TicketPNG(models.WalletTicket{Code: "ABC123"})
	require.NoError(t, err)
	direct, err := g.Encode("ABC123")
	require.NoError(t, err)
	assert.Equal(t, direct, withCode)

	_, err = g.TicketPNG(models.WalletTicket{ID: "tk-1"})
	assert.ErrorIs(t, err, qr.ErrEmptyContent)
}

func TestPixPNG(t *testing.T) {
	g := qr.NewGenerator(200)

	data, err := g.PixPNG(&models.PixPayment{CopyPaste: "00020126580014br.gov.bcb.pix0136chave-pix5204000053039865406161.205802BR6304ABCD"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	_, err = g.PixPNG(nil)
	assert.ErrorIs(t, err, qr.ErrEmptyContent)
	_, err = g.PixPNG(&models.PixPayment{})
	assert.ErrorIs(t, err, qr.ErrEmptyContent)
}
