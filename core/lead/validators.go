package lead

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/skillbridge/portal/core"
)

var (
	stageTag  = "stage"
	stageText = "must be a valid pipeline stage"
)

// InitValidators registers the `stage` validation tag.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(stageTag, func(fl validator.FieldLevel) bool {
		_, err := ParseStage(fl.Field().String())
		return err == nil
	})
	core.RegisterCustomTranslation(validate, translator, stageTag, stageText)
}
