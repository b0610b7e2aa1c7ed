package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/skilltrust/portal/internal/core/domain"
)

// formValidator wraps go-playground/validator so Echo can call
// c.Validate(form). Failures come back as a *domain.ValidationError so forms
// render inline field errors the same way upstream 422s do.
type formValidator struct {
	v *validator.Validate
}

// NewValidator returns a formValidator ready to be assigned to
// echo.Echo.Validator.
func NewValidator() *formValidator {
	return &formValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate satisfies the echo.Validator interface.
func (fv *formValidator) Validate(i any) error {
	err := fv.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make(domain.FieldErrors, len(ve))
	for _, fe := range ve {
		name := snakeCase(fe.Field())
		fields[name] = append(fields[name], fieldMessage(name, fe))
	}
	return &domain.ValidationError{Fields: fields}
}

func fieldMessage(field string, fe validator.FieldError) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, fe.Tag())
	}
}

// snakeCase converts a Go field name (PasswordConfirmation) to its form
// field name (password_confirmation).
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
