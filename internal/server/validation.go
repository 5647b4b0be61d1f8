package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/samber/lo"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

type sessionBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type requestBody struct {
	CargoCategory string  `json:"cargo_category" validate:"required,cargo"`
	WeightKg      float64 `json:"weight_kg" validate:"gt=0"`
	PickupPoint   string  `json:"pickup_point" validate:"required,notblank,max=200"`
	Destination   string  `json:"destination" validate:"required,notblank,max=200"`
}

type acceptBody struct {
	RatePerUnit   float64 `json:"rate_per_unit" validate:"gt=0"`
	EstimatedTime string  `json:"estimated_time" validate:"required,notblank,max=100"`
}

type messageBody struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Body        string `json:"body" validate:"required,notblank,max=2000"`
	RequestID   string `json:"request_id,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("cargo", func(fl validator.FieldLevel) bool {
		return lo.Contains(store.CargoCategories, fl.Field().String())
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and checks its tags. The
// returned error is safe to show to the caller.
func (s *Server) decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("Invalid request body")
	}
	if err := s.validate.Struct(dst); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := lo.Map(validationErrors, func(e validator.FieldError, _ int) string {
		return formatFieldError(e)
	})
	return fmt.Errorf("Validation failed: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "cargo":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(store.CargoCategories, ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
