package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return field.Name
		}
		return name
	})

	_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := ParseCategory(fl.Field().String())
		return ok
	})
}

// Validate checks the required draft fields and the category name.
func (d PostDraft) Validate() error {
	return fromValidator(validate.Struct(d))
}

// Validate checks an author identity.
func (a Author) Validate() error {
	return fromValidator(validate.Struct(a))
}

// Validate checks a comment body and its author.
func (c Comment) Validate() error {
	return fromValidator(validate.Struct(c))
}

func fromValidator(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Reason: reason(fe)})
	}
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "category":
		return "is not a known category"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "uri":
		return "must be a URI"
	default:
		return "failed " + fe.Tag()
	}
}
