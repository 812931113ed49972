package payments

import (
	"errors"
)

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrAlreadyCancelled = errors.New("payment already cancelled")
	ErrUnrecognizedType = errors.New("unrecognized payment type")
)

// ValidationError is a recoverable, caller facing rejection. Its message is
// returned verbatim in a response's validation error list.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err carries a ValidationError and
// returns its message.
func IsValidationError(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}
