package validation

import (
	"errors"
	"testing"

	"ms-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "11987654321", SanitizePhone("(11) 98765-4321"))
	assert.Equal(t, "98765-4321", FormatPhoneNumber("987654321"))
	assert.Equal(t, "3333-4444", FormatPhoneNumber("33334444"))
	assert.Equal(t, "12345", FormatPhoneNumber("123-45"))
	assert.Equal(t, "+55 (11) 99999-9999", FormatFullPhone("55", "11", "999999999"))
}

func TestIsValidBrazilianAreaCode(t *testing.T) {
	assert.True(t, IsValidBrazilianAreaCode("11"))
	assert.True(t, IsValidBrazilianAreaCode("99"))
	assert.False(t, IsValidBrazilianAreaCode("10"))
	assert.False(t, IsValidBrazilianAreaCode("ab"))
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		name    string
		country string
		area    string
		number  string
		want    string
	}{
		{"missing country", "", "11", "999999999", "Código do país é obrigatório"},
		{"short area", "55", "1", "999999999", "DDD deve ter 2 dígitos"},
		{"long area", "55", "119", "999999999", "DDD deve ter 2 dígitos"},
		{"area out of range", "55", "10", "999999999", "DDD inválido (deve estar entre 11 e 99)"},
		{"brazil too short", "55", "11", "9999-999", "Número deve ter 8 ou 9 dígitos"},
		{"brazil too long", "55", "11", "9999999999", "Número deve ter 8 ou 9 dígitos"},
		{"international short", "1", "20", "12345", "Número muito curto"},
		{"brazil mobile", "55", "21", "99999-9999", ""},
		{"brazil landline", "55", "21", "3333-4444", ""},
		{"international", "351", "21", "123456", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePhone(tc.country, tc.area, tc.number)
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.want, vErr.Message)
		})
	}
}

func TestCPF(t *testing.T) {
	assert.Equal(t, "12345678900", SanitizeCPF("123.456.789-00"))
	assert.NoError(t, ValidateCPF("123.456.789-00"))

	err := ValidateCPF("123.456.789")
	require.Error(t, err)
	assert.Equal(t, InvalidCPFMessage, err.Error())
}

func TestStructUsesJSONNames(t *testing.T) {
	v := New()

	err := v.Struct(models.LoginInput{Email: "not-an-email", Password: "x"})
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "email", vErr.Field)
	assert.Equal(t, "E-mail inválido", vErr.Message)

	err = v.Struct(models.TicketTypeInput{Name: "Pista", Audience: "ELDER", MaxQuantity: 1})
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "audience", vErr.Field)

	assert.NoError(t, v.Struct(models.LoginInput{Email: "ana@example.com", Password: "segredo"}))
}
