package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/amiyamandal-dev/newsreader/internal/domain"
)

// Validator wraps go-playground validator
type Validator struct {
	validate *validator.Validate
}

// New creates a new validator
func New() *Validator {
	v := validator.New()

	// Report mapstructure names so config errors point at the yaml key
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := strings.Split(f.Tag.Get("mapstructure"), ",")[0]; name != "" {
			return name
		}
		if name := strings.Split(f.Tag.Get("json"), ",")[0]; name != "" && name != "-" {
			return name
		}
		return f.Name
	})

	return &Validator{
		validate: v,
	}
}

// Validate validates a struct
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return FromError(err)
	}
	return nil
}

// FromError converts validator failures, including those raised by gin's
// binding, into a domain ValidationError. Other errors pass through.
func FromError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var messages []string
	field := ""
	for _, e := range validationErrors {
		if field == "" {
			field = fieldPath(e)
		}
		messages = append(messages, formatFieldError(e))
	}

	return domain.NewValidationError(field, strings.Join(messages, "; "))
}

// fieldPath drops the root struct name from the namespace
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// formatFieldError formats a single field error
func formatFieldError(e validator.FieldError) string {
	field := fieldPath(e)
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation for %s", field, tag)
	}
}

// ValidateStruct is a helper function for quick validation
func ValidateStruct(s interface{}) error {
	v := New()
	return v.Validate(s)
}
