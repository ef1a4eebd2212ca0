package registration

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/alfurqan/portal/core"
)

var (
	fullNameTag  = "fullname"
	fullNameText = "{0} must contain at least a first name and a surname"

	appTypeTag  = "apptype"
	appTypeText = "{0} must be one of student_nursery, student_primary, student_jss, student_sss, staff_teaching, staff_non_teaching"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(fullNameTag, func(fl validator.FieldLevel) bool {
		_, _, _, ok := SplitName(fl.Field().String())
		return ok
	})
	core.RegisterCustomTranslation(validate, translator, fullNameTag, fullNameText)

	_ = validate.RegisterValidation(appTypeTag, func(fl validator.FieldLevel) bool {
		return ApplicationType(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation(validate, translator, appTypeTag, appTypeText)
}
