package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// TagName is the struct tag read by both gin request binding and service-level validation
const TagName = "binding"

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator configured for the binding tag and JSON field names
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.SetTagName(TagName)
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		instance = v
	})
	return instance
}

// Struct validates s. Absent required fields yield apperrors.ErrMissingFields,
// any other rule violation yields apperrors.ErrValidationFailed.
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	return Classify(err)
}

// Classify converts validator errors into the application error taxonomy
func Classify(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	missing := MissingFields(fieldErrs)
	if len(missing) > 0 {
		return apperrors.NewCustomError(apperrors.ErrMissingFields,
			"missing required fields: "+strings.Join(missing, ", ")).
			WithDetails(map[string]interface{}{"fields": missing})
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, FormatFieldError(fe))
	}
	return apperrors.NewCustomError(apperrors.ErrValidationFailed, strings.Join(messages, "; "))
}

// MissingFields lists the fields that failed a "required" rule
func MissingFields(errs validator.ValidationErrors) []string {
	var fields []string
	for _, fe := range errs {
		if fe.Tag() == "required" {
			fields = append(fields, fe.Field())
		}
	}
	return fields
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
