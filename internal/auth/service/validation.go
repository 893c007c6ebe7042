package service

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Same shape the original contract requires: exactly one @, at least one
// dot after it, no whitespace anywhere. A syntactic sanity check only; it
// says nothing about deliverability.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// never fails: the closure only reads the field value
	_ = v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	return v
}

func IsValidEmail(candidate string) bool {
	return emailRegex.MatchString(candidate)
}

type credentials struct {
	Email    string `validate:"required,basic_email"`
	Password string `validate:"required"`
}

func validateCredentials(email, password string) error {
	err := validate.Struct(credentials{Email: email, Password: password})
	if err == nil {
		return nil
	}

	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			if fe.Tag() == "required" {
				return ErrFieldsRequired
			}
		}
		return ErrInvalidEmail
	}

	return ErrFieldsRequired
}
