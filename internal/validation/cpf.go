package validation

const InvalidCPFMessage = "CPF inválido: deve conter 11 dígitos."

// SanitizeCPF turns "123.456.789-00" into "12345678900".
func SanitizeCPF(cpf string) string {
	return digits(cpf)
}

// ValidateCPF only checks the length after sanitising. Check digits are verified remotely.
func ValidateCPF(cpf string) error {
	if len(SanitizeCPF(cpf)) != 11 {
		return invalid("cpf", InvalidCPFMessage)
	}
	return nil
}
