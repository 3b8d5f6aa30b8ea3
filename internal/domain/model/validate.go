//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	errs "github.com/officeplus/faq-api/internal/errors"
)

var structValidator = sync.OnceValue(func() *validator.Validate { //nolint:gochecknoglobals // shared, goroutine-safe validator
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
})

// validateStruct runs tag validation and reports the first violation as a
// validation AppError naming the offending JSON field.
func validateStruct(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.Wrap(err, errs.ErrCodeValidation, "invalid request")
	}
	fe := verrs[0]
	return errs.ValidationField(fieldName(fe), messageFor(fe))
}

// fieldName strips the struct name and keeps any slice index,
// e.g. "CreateFAQRequest.new_tag_names[1]" → "new_tag_names[1]".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError) string {
	field := fieldName(fe)
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required and cannot be empty"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// emptyToNil trims s and drops it when nothing is left.
func emptyToNil(s *string) *string {
	s = trimPtr(s)
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
