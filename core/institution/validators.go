package institution

import (
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/findgreatschool/core"
)

var (
	// custom validation tags & texts
	categoryTag  = "category"
	categoryText = "choose one of school, coaching or college"
	featureTag   = "feature"
	featureText  = "unknown feature"
	pincodeTag   = "pincode"
	pincodeText  = "enter a valid 6-digit PIN code"
	pincodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// InitValidators registers the institution validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(categoryTag, categoryValidation)
	core.RegisterCustomTranslation(validate, translator, categoryTag, categoryText)

	_ = validate.RegisterValidation(featureTag, featureValidation)
	core.RegisterCustomTranslation(validate, translator, featureTag, featureText)

	_ = validate.RegisterValidation(pincodeTag, pincodeValidation)
	core.RegisterCustomTranslation(validate, translator, pincodeTag, pincodeText)
}

func categoryValidation(fl validator.FieldLevel) bool {
	return Category(fl.Field().String()).IsValid()
}

func featureValidation(fl validator.FieldLevel) bool {
	return IsRegistrationFeature(fl.Field().String())
}

func pincodeValidation(fl validator.FieldLevel) bool {
	return pincodeRegex.MatchString(fl.Field().String())
}
