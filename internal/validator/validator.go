package validator

import (
	"math"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register wires custom validation rules into Gin's binding engine. Call once
// at startup before any routes are registered.
func Register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("currency", validateCurrency)
}

// validateCurrency accepts non-negative monetary amounts with at most two
// decimal places.
func validateCurrency(fl validator.FieldLevel) bool {
	amount := fl.Field().Float()
	if amount < 0 {
		return false
	}
	cents := amount * 100
	return math.Abs(cents-math.Round(cents)) < 1e-9
}
