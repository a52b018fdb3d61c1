package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes validation errors report JSON field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// ValidationMessages converts binding validation failures to client messages.
// fieldMessages is keyed by "field.tag" or by "field"; failures with no entry
// get a generic message. Repeated messages are reported once, in order.
// ok is false when err is not a validation failure.
func ValidationMessages(err error, fieldMessages map[string]string) (messages []string, ok bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}

	seen := make(map[string]struct{}, len(validationErrors))
	messages = make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msg := messageFor(e, fieldMessages)
		if _, dup := seen[msg]; dup {
			continue
		}
		seen[msg] = struct{}{}
		messages = append(messages, msg)
	}
	return messages, true
}

func messageFor(e validator.FieldError, fieldMessages map[string]string) string {
	if msg, ok := fieldMessages[e.Field()+"."+e.Tag()]; ok {
		return msg
	}
	if msg, ok := fieldMessages[e.Field()]; ok {
		return msg
	}
	return e.Field() + ": " + getValidationMessage(e)
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	default:
		return "Invalid value"
	}
}
