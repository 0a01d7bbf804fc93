package utils

import (
	"errors"
	"reflect"
	"strings"

	"shopmydish/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NewValidator reports fields by their json names and lets decimal fields
// use the numeric tags (gte, lte).
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// ValidationFields turns validator errors into a domain.ValidationError.
// Any other error is returned unchanged.
func ValidationFields(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := &domain.ValidationError{Fields: make(map[string]string, len(ve))}
	for _, fe := range ve {
		out.Fields[fieldPath(fe)] = fieldMessage(fe)
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must not be negative"
	case "uuid":
		return "must be a valid id"
	default:
		return "is invalid"
	}
}
