package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"catalogue/internal/validation"

	"github.com/go-playground/validator/v10"
)

// Validator for request shapes such as query strings. Records are checked
// by their own rule tables in the validation package.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// ValidateRequest validates a request struct against its validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// BodyLimit caps request bodies at maxBytes. Oversized multipart bodies
// then fail while being parsed.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FormatValidationErrors converts validator errors and rule table
// violations into one list.
func FormatValidationErrors(err error) validation.Violations {
	if violations, ok := validation.AsViolations(err); ok {
		return violations
	}

	var errs validation.Violations
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errs = append(errs, validation.Violation{
				Field:   e.Field(),
				Message: getErrorMessage(e),
			})
		}
	}

	return errs
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Cette valeur ne doit pas être vide."
	case "oneof":
		return "Cette valeur doit être l'un des choix proposés (" + strings.ReplaceAll(e.Param(), " ", ", ") + ")."
	case "gte", "min":
		return "Cette valeur doit être supérieure ou égale à " + e.Param() + "."
	case "lte", "max":
		return "Cette valeur doit être inférieure ou égale à " + e.Param() + "."
	default:
		return validation.DefaultMessage
	}
}
