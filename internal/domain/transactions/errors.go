package transactions

import (
	"errors"
	"fmt"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// ValidationError names the field that failed validation so the transport
// layer can surface it to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
