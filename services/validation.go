package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/yashrajoria/pharmacy-storefront/errors"
)

// FieldErrors lists the form problems shown next to the submit button.
type FieldErrors []string

func (f FieldErrors) Error() string { return strings.Join(f, "; ") }

func (f FieldErrors) UserMessage() string {
	if len(f) == 0 {
		return ""
	}
	msg := f.Error()
	return strings.ToUpper(msg[:1]) + msg[1:]
}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

// validateRequest returns ErrValidation carrying FieldErrors, or nil.
func validateRequest(req interface{}) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.Wrap(apperrors.ErrValidation, err)
	}
	return apperrors.Wrap(apperrors.ErrValidation, formatValidationErrors(validationErrs))
}

func formatValidationErrors(errs validator.ValidationErrors) FieldErrors {
	messages := make(FieldErrors, 0, len(errs))
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, err.Param()))
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param()))
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", field, err.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed validation for %s", field, err.Tag()))
		}
	}
	return messages
}
