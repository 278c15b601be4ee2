package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and reports the first
// failure as a ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return WrapError(err, "failed to validate request")
	}

	fe := fieldErrs[0]
	msg := "failed on the '" + fe.Tag() + "' rule"
	switch fe.Tag() {
	case "required":
		msg = "cannot be empty"
	case "max":
		msg = "must be at most " + fe.Param() + " characters"
	case "min":
		msg = "must be at least " + fe.Param()
	}

	return &ValidationError{
		Field:   fe.Field(),
		Message: msg,
	}
}
