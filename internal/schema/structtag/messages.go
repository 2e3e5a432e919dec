package structtag

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// fieldMessage converts a validator failure into a client-facing sentence.
func fieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"

	case "min":
		// strings: minimum length, numbers: minimum value
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())

	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		}
		return fmt.Sprintf("must not exceed %s", err.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	case "email":
		return "must be a valid email address"

	case "e164":
		return "must be a valid phone number with country code"

	case "uuid":
		return "must be a valid UUID"

	case "dive":
		return "some items are invalid"
	}

	if err.Param() != "" {
		return fmt.Sprintf("failed %s:%s", err.Tag(), err.Param())
	}
	return fmt.Sprintf("failed %s", err.Tag())
}
