package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/user-directory/internal/models"
)

// nameRegex requires a run of non-space characters, a space, then at least
// one more non-space character. Anything after that is unconstrained.
var nameRegex = regexp.MustCompile(`^[^ ]+ [^ ]+`)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   models.ValidationField `json:"field"`
	Message string                 `json:"message"`
	Value   interface{}            `json:"value,omitempty"`
}

// Validator provides validation methods
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

var defaultValidator = NewValidator()

// ValidateName reports whether name holds at least two space separated tokens
func ValidateName(name string) bool {
	return defaultValidator.ValidateName(name)
}

// ValidateEmail reports whether email is a syntactically valid address
func ValidateEmail(email string) bool {
	return defaultValidator.ValidateEmail(email)
}

// ValidateName reports whether name holds at least two space separated tokens
func (v *Validator) ValidateName(name string) bool {
	return nameRegex.MatchString(name)
}

// ValidateEmail delegates to the go-playground "email" rule, which requires
// a local part, an "@" and a dotted domain.
func (v *Validator) ValidateEmail(email string) bool {
	return v.validate.Var(email, "required,email") == nil
}

// ValidateUser validates a new directory entry. Errors are reported in a
// fixed order: name first, then email.
func (v *Validator) ValidateUser(name, email string) []ValidationError {
	var errors []ValidationError

	if !v.ValidateName(name) {
		errors = append(errors, ValidationError{
			Field:   models.FieldNameFormat,
			Message: models.ValidationMessages[models.FieldNameFormat],
			Value:   name,
		})
	}

	if !v.ValidateEmail(email) {
		errors = append(errors, ValidationError{
			Field:   models.FieldEmailFormat,
			Message: models.ValidationMessages[models.FieldEmailFormat],
			Value:   email,
		})
	}

	return errors
}
