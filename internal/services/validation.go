// file: internal/services/validation.go
package services

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// usernamePattern accepts letters, digits, underscores, and hyphens
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// newValidator builds the validator shared by the service layer, with the
// custom username rule registered
func newValidator() *validator.Validate {
	v := validator.New()

	// registration only fails for an empty tag or a nil func
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return v
}
