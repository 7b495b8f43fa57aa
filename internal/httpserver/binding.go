package httpserver

import (
	"fmt"

	"milsabores/internal/validate"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerValidations adds the Chilean form validators to gin's binding
// engine so request structs can use them in binding tags.
func registerValidations() error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}

	customs := map[string]validator.Func{
		"nationalid": func(fl validator.FieldLevel) bool {
			return validate.NationalID(fl.Field().String())
		},
		"allowedemail": func(fl validator.FieldLevel) bool {
			return validate.Email(fl.Field().String())
		},
		"clphone": func(fl validator.FieldLevel) bool {
			return validate.Phone(fl.Field().String())
		},
	}
	for tag, fn := range customs {
		if err := engine.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validation: %w", tag, err)
		}
	}
	return nil
}
