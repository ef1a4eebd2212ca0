package academic

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/alfurqan/portal/core"
)

var (
	termTag  = "term"
	termText = "{0} must be one of first, second, third or all"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(termTag, func(fl validator.FieldLevel) bool {
		return Term(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, termTag, termText)
}
