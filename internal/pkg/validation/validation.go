package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Errors maps a JSON field name to a human readable message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}

	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}

	return "validation error: " + strings.Join(parts, "; ")
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	// letters, digits, '_' and '-'
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
				return false
			}
		}

		return true
	})

	return &Validator{v: v}
}

// Struct validates s and reports failures as Errors keyed by JSON field name.
func (vd *Validator) Struct(s interface{}) error {
	err := vd.v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate error: %w", err)
	}

	res := make(Errors, len(ve))

	for _, fe := range ve {
		field := fe.Field()

		// nested or dived fields, e.g. tag_ids[0]
		if ns := fe.Namespace(); strings.Count(ns, ".") > 1 {
			_, field, _ = strings.Cut(ns, ".")
		}

		res[field] = message(fe)
	}

	return res
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("should have at least %s characters", fe.Param())
		}

		return "should be greater than or equal to " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("should have at most %s characters", fe.Param())
		}

		return "should be less than or equal to " + fe.Param()
	case "gt":
		return "should be greater than " + fe.Param()
	case "gte":
		return "should be greater than or equal to " + fe.Param()
	case "lte":
		return "should be less than or equal to " + fe.Param()
	case "username":
		return "must be alphanumeric (can include _ and -)"
	default:
		return "failed on the '" + fe.Tag() + "' rule"
	}
}
