package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func InitValidator() {
	if Validate != nil {
		return
	}
	v := validator.New()
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	Validate = v
}
