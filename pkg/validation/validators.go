package validation

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", NotBlank)
	_ = v.RegisterValidation("dateonly", DateOnly)
}

// NotBlank rejects strings that are empty after trimming whitespace. Used
// for report content and company names, where "   \n" must not pass a bare
// required check.
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// DateOnly validates a YYYY-MM-DD calendar date. Empty is allowed; pair with
// required when the field is mandatory.
func DateOnly(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return ValidDateOnly(val)
}

// ValidDateOnly reports whether s is a well-formed YYYY-MM-DD date.
func ValidDateOnly(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}
