package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validatable interface {
	Validate() error
}

type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type FieldErrors []FieldError

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for _, fe := range f {
		parts = append(parts, fe.Field+" "+fe.Error)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (f FieldErrors) Fields() []string {
	fields := make([]string, 0, len(f))
	for _, fe := range f {
		fields = append(fields, fe.Field)
	}
	return fields
}

func Validate(v Validatable) FieldErrors {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return nil
}

func extractValidationError(err error) FieldErrors {
	var fieldErrors FieldErrors

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		var custom FieldErrors
		if errors.As(err, &custom) {
			return custom
		}
		return FieldErrors{{Field: "_", Error: err.Error()}}
	}

	for _, err := range validationErrors {
		field := strings.ToLower(err.Field())
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, FieldError{
			Field: field,
			Error: msg,
		})
	}

	return fieldErrors
}
