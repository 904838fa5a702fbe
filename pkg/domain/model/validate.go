package model

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/m-mizutani/goerr/v2"
)

type enum interface {
	IsValid() bool
}

var (
	validate *govalidator.Validate
	trans    ut.Translator
)

func init() {
	validate = govalidator.New(govalidator.WithRequiredStructEnabled())

	// Report YAML field names so errors point at the catalog file
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("valid", func(fl govalidator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enum)
		return ok && e.IsValid()
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)
	_ = validate.RegisterTranslation("valid", trans,
		func(t ut.Translator) error {
			return t.Add("valid", "{0} has an unsupported value", true)
		},
		func(t ut.Translator, fe govalidator.FieldError) string {
			msg, _ := t.T("valid", fe.Field())
			return msg
		},
	)
}

// FieldErrors maps each failed field of a validation error to a readable
// message. Errors that are not validation errors map to "detail".
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Namespace()] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return goerr.Wrap(err, "struct validation failed", goerr.V("fields", FieldErrors(err)))
	}
	return nil
}
