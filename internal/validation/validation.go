// Package validation wraps go-playground/validator with the rules the store
// rating domain needs and converts failures into apperr validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"storerating/internal/apperr"
	"storerating/internal/models"

	"github.com/go-playground/validator/v10"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 16
	// PasswordSpecials is the set a password must draw at least one character from.
	PasswordSpecials = "!@#$&*"
)

// Validator validates request structs by their `validate` tags.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom `password` and `role` rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	})
	return &Validator{validate: v}
}

// ValidPassword applies the password policy: 8-16 characters with at least
// one uppercase letter and one character from PasswordSpecials.
func ValidPassword(p string) bool {
	n := utf8.RuneCountInString(p)
	if n < PasswordMinLength || n > PasswordMaxLength {
		return false
	}
	var hasUpper bool
	for _, r := range p {
		if unicode.IsUpper(r) {
			hasUpper = true
			break
		}
	}
	return hasUpper && strings.ContainsAny(p, PasswordSpecials)
}

// Struct validates s and returns an *apperr.Error of kind validation listing
// every violated rule, or nil.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal("could not validate request", err)
	}

	fields := make(map[string]string, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := message(fe)
		fields[fe.Field()] = msg
		messages = append(messages, msg)
	}
	return apperr.Validation(strings.Join(messages, " "), fields)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", field)
	case "password":
		return fmt.Sprintf("%s must be %d-%d characters, with one uppercase letter and one special character (%s).",
			field, PasswordMinLength, PasswordMaxLength, PasswordSpecials)
	case "role":
		return fmt.Sprintf("%s must be one of Admin, Normal, StoreOwner.", field)
	default:
		return fmt.Sprintf("%s failed the %q rule.", field, fe.Tag())
	}
}
