package service

import (
	"errors"
	"fmt"

	"github.com/pageza/recipebox/backend/internal/store"
)

// ErrNotFound is returned when the referenced recipe does not exist
var ErrNotFound = store.ErrNotFound

// ValidationError reports a client-supplied field that is missing or malformed
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err carries a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
