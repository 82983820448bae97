package role

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/skillbridge/portal/core"
)

var (
	roleTag  = "role"
	roleText = "unknown role"
)

// InitValidators registers the `role` validation tag.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
		return IsValid(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)
}
