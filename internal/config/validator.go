package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type customValidation struct {
	tag     string
	fn      validator.Func
	message string
}

var customValidations = []customValidation{
	{tag: "file", fn: isFileReadable, message: "{0} must be an existing and readable file"},
	{tag: "nonblank", fn: isNonBlank, message: "{0} must not be blank"},
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, custom := range customValidations {
		if err := registerCustomValidation(validate, trans, custom); err != nil {
			return nil, nil, err
		}
	}
	return validate, trans, nil
}

func registerCustomValidation(validate *validator.Validate, trans ut.Translator, custom customValidation) error {
	if err := validate.RegisterValidation(custom.tag, custom.fn); err != nil {
		return fmt.Errorf("failed to register %s validation: %w", custom.tag, err)
	}
	if err := validate.RegisterTranslation(custom.tag, trans, func(ut ut.Translator) error {
		return ut.Add(custom.tag, custom.message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(custom.tag, strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return fmt.Errorf("failed to register %s translation: %w", custom.tag, err)
	}
	return nil
}

func isNonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func isFileReadable(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	// Check if the owner has read permission
	return info.Mode().Perm()&(1<<(uint(8))) != 0
}
