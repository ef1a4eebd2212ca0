package notice

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/alfurqan/portal/core"
)

var (
	audienceTag  = "audience"
	audienceText = "{0} must be one of all, staff or students"

	priorityTag  = "priority"
	priorityText = "{0} must be normal or high"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(audienceTag, func(fl validator.FieldLevel) bool {
		return Audience(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, audienceTag, audienceText)

	_ = validate.RegisterValidation(priorityTag, func(fl validator.FieldLevel) bool {
		return Priority(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, priorityTag, priorityText)
}
