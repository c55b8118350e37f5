package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/navarrastar/review-register/pkg/models"
)

const (
	// local-part characters allowed outside the quoted form
	atext = "a-z0-9!#$%&'*+/=?^_`{|}~-"

	emailPattern = `^(?:[` + atext + `]+(?:\.[` + atext + `]+)*` +
		`|"(?:[\x01-\x08\x0b\x0c\x0e-\x1f\x21\x23-\x5b\x5d-\x7f]|\\[\x01-\x09\x0b\x0c\x0e-\x7f])*")` +
		`@(?:(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z0-9](?:[a-z0-9-]*[a-z0-9])?` +
		`|\[(?:(?:25[0-5]|2[0-4][0-9]|1[0-9][0-9]|[1-9]?[0-9])\.){3}` +
		`(?:25[0-5]|2[0-4][0-9]|1[0-9][0-9]|[1-9]?[0-9]` +
		`|[a-z0-9-]*[a-z0-9]:(?:[\x01-\x08\x0b\x0c\x0e-\x1f\x21-\x5a\x53-\x7f]|\\[\x01-\x09\x0b\x0c\x0e-\x7f])+)\])$`

	// area code, exchange, line number
	phonePattern = `^([0-9]{3})([0-9]{3})([0-9]{4})$`

	// counted in runes
	nameRule = "min=1,max=32"
)

var (
	emailRegex = regexp.MustCompile(emailPattern)
	phoneRegex = regexp.MustCompile(phonePattern)

	defaultOnce      sync.Once
	defaultValidator *Validator
)

// ValidationError describes one field that failed its rule
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(ve))
	for _, e := range ve {
		fields = append(fields, fmt.Sprintf("%s (%s)", e.Field, e.Tag))
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// Validator checks registration forms field by field.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the usphone and rfc5322email tags registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("usphone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("rfc5322email", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Default returns a process-wide validator.
func Default() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = NewValidator()
	})
	return defaultValidator
}

// IsValidFirstName reports whether s is 1 to 32 characters long.
func (v *Validator) IsValidFirstName(s string) bool {
	return v.validate.Var(s, nameRule) == nil
}

// IsValidLastName applies the first name rule to the last name.
func (v *Validator) IsValidLastName(s string) bool {
	return v.validate.Var(s, nameRule) == nil
}

// IsValidPhone reports whether s is exactly ten digits with no separators.
func (v *Validator) IsValidPhone(s string) bool {
	return v.validate.Var(s, "usphone") == nil
}

// IsValidEmail reports whether s is a lowercase RFC 5322 style address.
func (v *Validator) IsValidEmail(s string) bool {
	return v.validate.Var(s, "rfc5322email") == nil
}

// Validate reports whether all four fields pass.
func (v *Validator) Validate(form models.RegistrationForm) bool {
	return v.ValidateForm(form) == nil
}

// ValidateForm returns ValidationErrors naming every failing field, or nil.
func (v *Validator) ValidateForm(form models.RegistrationForm) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("error validating form: %w", err)
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Value: fmt.Sprintf("%v", fe.Value()),
		})
	}
	return out
}

// Package-level helpers backed by Default.

func IsValidFirstName(s string) bool { return Default().IsValidFirstName(s) }
func IsValidLastName(s string) bool  { return Default().IsValidLastName(s) }
func IsValidPhone(s string) bool     { return Default().IsValidPhone(s) }
func IsValidEmail(s string) bool     { return Default().IsValidEmail(s) }

func Validate(form models.RegistrationForm) bool { return Default().Validate(form) }
