package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-shop-backend/pkg/apierror"
)

var validate = newValidator()

// newValidator builds the shared validator. Field names in validation
// errors use the json (or form) tag so they match what the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})

	return v
}

// validateStruct runs the tag rules and converts failures into a single
// field-level validation error.
func validateStruct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return err
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return err
	}

	fields := make([]apierror.FieldError, 0, len(violations))
	for _, violation := range violations {
		fields = append(fields, apierror.FieldError{
			Field:   violation.Field(),
			Message: fieldMessage(violation),
		})
	}

	return apierror.Validation(fields...)
}

func fieldMessage(violation validator.FieldError) string {
	switch violation.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", violation.Param())
	case "eqfield":
		return "must match the password"
	case "gt":
		return fmt.Sprintf("must be greater than %s", violation.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", violation.Param())
	case "uuid4":
		return "must be a valid product id"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", violation.Param())
	default:
		return "is invalid"
	}
}
