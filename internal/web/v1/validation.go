package v1

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindErrorMessage returns a user-friendly message for binding errors.
// Validation failures are spelled out per field; everything else gets a
// generic message so internal structure never leaks to clients.
func bindErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		var messages []string
		for _, e := range validationErrs {
			switch e.ActualTag() {
			case "required":
				messages = append(messages, fmt.Sprintf("field %s is required", e.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("field %s must be a valid email address", e.Field()))
			default:
				messages = append(messages, fmt.Sprintf("field %s is invalid", e.Field()))
			}
		}
		return strings.Join(messages, ", ")
	}
	return "Invalid request"
}
