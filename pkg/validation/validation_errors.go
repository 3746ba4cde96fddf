package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the labels shown in error messages.
var FieldLabels = map[string]string{
	"Email":       "Email",
	"Password":    "Password",
	"CompanyName": "Company name",
	"Content":     "Report content",
	"Date":        "Date",
	"Theme":       "Theme",
	"Engine":      "Recognition engine",
	"Lang":        "Language",
	"Reason":      "Reason",
}

// BindingMessage converts a request binding error into one user-facing
// message line.
func BindingMessage(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

// FormatValidationErrors converts validator.ValidationErrors to
// user-friendly messages, one per failed field.
func FormatValidationErrors(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	var messages []string
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, e.Param())
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Split(e.Param(), " "), ", "))
	case "notblank":
		return fmt.Sprintf("%s cannot be blank", label)
	case "dateonly":
		return fmt.Sprintf("%s must be formatted as YYYY-MM-DD", label)
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return fieldName
}
