package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "bikepulse/internal/errors"
	api "bikepulse/pkg/contracts/api/v1"
)

// RequestValidator validates request contracts using struct tags
type RequestValidator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewRequestValidator creates a validator that reports fields by their
// query, path or JSON name.
func NewRequestValidator(logger *slog.Logger) *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"query", "param", "json"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &RequestValidator{
		validator: v,
		logger:    logger.With(slog.String("component", "request_validator")),
	}
}

// BindRange reads start and end from the query string and validates them
func (m *RequestValidator) BindRange(r *http.Request) (api.RangeQuery, error) {
	q := r.URL.Query()
	query := api.RangeQuery{
		Start: strings.TrimSpace(q.Get("start")),
		End:   strings.TrimSpace(q.Get("end")),
	}
	if err := m.ValidateStruct(query); err != nil {
		m.logger.DebugContext(r.Context(), "rejected range query",
			slog.String("start", query.Start),
			slog.String("end", query.End),
		)
		return api.RangeQuery{}, err
	}
	return query, nil
}

// ValidateStruct validates a struct and returns validation errors
func (m *RequestValidator) ValidateStruct(v interface{}) error {
	err := m.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.ErrValidation("request", err.Error())
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "datetime":
		return fmt.Sprintf("%s must be a date in the form YYYY-MM-DD", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}
