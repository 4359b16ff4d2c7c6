package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate enforces the request-schema constraints that apply before the auth
// core's own policy checks run. The custom "password_bytes" rule rejects
// whitespace-only input and anything longer than 72 bytes after trimming.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("password_bytes", func(fl validator.FieldLevel) bool {
		trimmed := strings.TrimSpace(fl.Field().String())
		return trimmed != "" && len(trimmed) <= 72
	})
	return v
}

// validationMessage turns the first failed rule into a user-facing reason.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "password_bytes":
		return "password must not be blank or exceed 72 bytes"
	}
	return fmt.Sprintf("%s is invalid", field)
}
