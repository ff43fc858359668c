package validator

import (
	"errors"
	"fmt"

	"kartrm/pkg/model"

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

type KartValidator struct {
	validate *validator.Validate
}

func NewKartValidator() *KartValidator {
	return &KartValidator{
		validate: validator.New(),
	}
}

func (v *KartValidator) Validate(kart *model.Kart) error {
	if err := v.validate.Struct(kart); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			var out ValidationErrors
			for _, fieldErr := range validationErrs {
				out = append(out, ValidationError{
					Field:   fieldErr.Field(),
					Message: fmt.Sprintf("failed on %s validation", fieldErr.Tag()),
				})
			}
			return out
		}
		return err
	}
	return nil
}
