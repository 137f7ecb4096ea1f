package validation

// ValidationError is a local input failure with a message fit for the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func NewError(field, message string) *ValidationError {
	return invalid(field, message)
}
