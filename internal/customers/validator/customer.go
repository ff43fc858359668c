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

type CustomerValidator struct {
	validate *validator.Validate
}

func NewCustomerValidator() *CustomerValidator {
	v := validator.New()

	_ = v.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return sanitizer.ValidRut(fl.Field().String())
	})

	return &CustomerValidator{
		validate: v,
	}
}

func (v *CustomerValidator) Validate(customer *model.Customer) error {
	if err := v.validate.Struct(customer); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *CustomerValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = "is required"
		case "email":
			message = "must be a valid email address"
		case "rut":
			message = "must be a valid rut with verification digit"
		case "min":
			message = fmt.Sprintf("must be at least %s characters", err.Param())
		case "max":
			message = fmt.Sprintf("must be at most %s characters", err.Param())
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
