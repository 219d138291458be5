// Package validator checks user input before any gateway call is made.
package validator

import (
	"fmt"
	"regexp"

	"github.com/chepeat/chepeat/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// At least 8 chars from the allowed set, with at least one letter and one digit.
var (
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d!@#$%^&*.,]{8,}$`)
	hasLetter       = regexp.MustCompile(`[A-Za-z]`)
	hasDigit        = regexp.MustCompile(`\d`)
)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("password", validatePassword)
}

// ValidateStruct validates s against its `validate` tags. Failures wrap
// common.ErrValidation.
func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

// ValidateVar validates a single value against tag, naming it field in the error.
func ValidateVar(field string, v any, tag string) error {
	if err := validate.Var(v, tag); err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrValidation, field, err)
	}
	return nil
}

func validatePassword(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	return passwordCharset.MatchString(p) && hasLetter.MatchString(p) && hasDigit.MatchString(p)
}
