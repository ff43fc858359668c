package validator

import (
	"errors"
	"fmt"

	"kartrm/pkg/model"
	"kartrm/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

type ReservationValidator struct {
	validate *validator.Validate
}

func NewReservationValidator() *ReservationValidator {
	v := validator.New()

	_ = v.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return sanitizer.ValidRut(fl.Field().String())
	})

	// rut_list accepts an empty string; non-empty lists must hold only
	// valid ruts after normalization.
	_ = v.RegisterValidation("rut_list", func(fl validator.FieldLevel) bool {
		ruts := sanitizer.SplitRutList(fl.Field().String())
		for _, rut := range ruts {
			if !sanitizer.ValidRut(sanitizer.NormalizeRut(rut)) {
				return false
			}
		}
		return true
	})

	return &ReservationValidator{
		validate: v,
	}
}

func (v *ReservationValidator) Validate(reservation *model.Reservation) error {
	if err := v.validate.Struct(reservation); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *ReservationValidator) ValidateUpdate(updates *model.ReservationUpdate) error {
	if err := v.validate.Struct(updates); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = "is required"
		case "rut":
			message = "must be a valid rut with verification digit"
		case "rut_list":
			message = "must be a comma-separated list of valid ruts"
		case "min":
			message = fmt.Sprintf("must be at least %s", err.Param())
		case "max":
			message = fmt.Sprintf("must be at most %s", err.Param())
		default:
			message = fmt.Sprintf("failed on %s validation", err.Tag())
		}
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
