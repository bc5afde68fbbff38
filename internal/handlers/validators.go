package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// accountCodePattern matches dot-segmented chart codes: numeric segments,
// between one and five levels, no leading zeros.
var accountCodePattern = regexp.MustCompile(`^[1-9][0-9]*(\.[1-9][0-9]*){0,4}$`)

func isAccountCode(fl validator.FieldLevel) bool {
	return accountCodePattern.MatchString(fl.Field().String())
}

// registerCustomValidators installs the binding-tag validators used by the
// request DTOs into gin's validator engine.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("accountcode", isAccountCode)
	}
}
