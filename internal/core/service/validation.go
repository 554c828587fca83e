package service

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/bethehero/web/internal/core/domain"
)

// fieldMessages maps field name → validator tag → message.
type fieldMessages map[string]map[string]string

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// formValidator returns the shared validator. Field names come from the
// `form` struct tag so errors are keyed like the submitted fields.
func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(sf reflect.StructField) string {
			name := strings.SplitN(sf.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateForm checks input and returns every failing field with its message.
// Each field reports the first rule that failed, in tag order.
func validateForm(input any, messages fieldMessages) domain.FieldErrors {
	err := formValidator().Struct(input)
	if err == nil {
		return nil
	}

	errs := domain.FieldErrors{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		errs["_"] = err.Error()
		return errs
	}
	for _, fe := range ve {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = fieldMessage(fe, messages)
	}
	return errs
}

func fieldMessage(fe validator.FieldError, messages fieldMessages) string {
	if byTag, ok := messages[fe.Field()]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			return msg
		}
	}
	return fe.Field() + " é inválido"
}
