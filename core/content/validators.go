package content

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutube/core"
)

var (
	statusTag  = "contentstatus"
	statusText = "{0} must be one of draft, published or archived"
)

// InitValidators registers the content validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

func statusValidation(fl validator.FieldLevel) bool {
	return IsStatus(fl.Field().String())
}
