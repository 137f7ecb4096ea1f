package validation

import (
	"strconv"
	"strings"
)

const brazilCountryCode = "55"

// SanitizePhone keeps only the digits.
func SanitizePhone(phone string) string {
	return digits(phone)
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// FormatPhoneNumber renders 9 digits as 99999-9999 and 8 as 8888-8888.
// Anything else comes back as bare digits.
func FormatPhoneNumber(phone string) string {
	cleaned := SanitizePhone(phone)
	switch len(cleaned) {
	case 9:
		return cleaned[:5] + "-" + cleaned[5:]
	case 8:
		return cleaned[:4] + "-" + cleaned[4:]
	}
	return cleaned
}

// FormatFullPhone renders ("55", "11", "999999999") as "+55 (11) 99999-9999".
func FormatFullPhone(countryCode, areaCode, number string) string {
	return "+" + countryCode + " (" + areaCode + ") " + FormatPhoneNumber(number)
}

func IsValidBrazilianAreaCode(areaCode string) bool {
	code, err := strconv.Atoi(areaCode)
	return err == nil && code >= 11 && code <= 99
}

// ValidatePhone checks the three phone parts the way the registration form does.
// Brazilian numbers are strict, international ones only need 6 digits.
func ValidatePhone(countryCode, areaCode, number string) error {
	if countryCode == "" {
		return invalid("phoneCountryCode", "Código do país é obrigatório")
	}
	if len(areaCode) != 2 {
		return invalid("phoneAreaCode", "DDD deve ter 2 dígitos")
	}

	cleaned := SanitizePhone(number)
	if countryCode == brazilCountryCode {
		if !IsValidBrazilianAreaCode(areaCode) {
			return invalid("phoneAreaCode", "DDD inválido (deve estar entre 11 e 99)")
		}
		if len(cleaned) != 8 && len(cleaned) != 9 {
			return invalid("phoneNumber", "Número deve ter 8 ou 9 dígitos")
		}
		return nil
	}

	if len(cleaned) < 6 {
		return invalid("phoneNumber", "Número muito curto")
	}
	return nil
}
