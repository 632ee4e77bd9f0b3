package directory

import (
	"errors"
	"strings"

	"github.com/user-directory/internal/models"
	"github.com/user-directory/internal/validation"
)

var (
	// ErrSourceUnavailable is returned when the seed fetch fails or the
	// payload cannot be parsed. The store stays unseeded.
	ErrSourceUnavailable = errors.New("seed source unavailable")

	// ErrNotSeeded is returned by Insert before the first successful Seed
	ErrNotSeeded = errors.New("directory not seeded")
)

// ValidationError is returned by Insert when the input is rejected. The
// directory is left unchanged.
type ValidationError struct {
	Fields []models.ValidationField
	Errors []validation.ValidationError
}

func newValidationError(errs []validation.ValidationError) *ValidationError {
	fields := make([]models.ValidationField, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return &ValidationError{Fields: fields, Errors: errs}
}

func (e *ValidationError) Error() string {
	return "invalid user: " + strings.Join(e.FieldNames(), ", ")
}

// FieldNames returns the failed fields as strings
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, string(f))
	}
	return names
}

// Has reports whether field is among the failed fields
func (e *ValidationError) Has(field models.ValidationField) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}
