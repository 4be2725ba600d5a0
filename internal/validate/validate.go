// Package validate schema-checks form payloads before any state is touched.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes the first violated rule of a payload.
type FieldError struct {
	Field   string // form field name, e.g. "username"
	Rule    string // validator tag, e.g. "alphanum"
	Param   string // tag parameter, e.g. "20" for max=20
	Message string // human-readable, shown verbatim to the user
}

func (e *FieldError) Error() string { return e.Message }

// Validator wraps go-playground/validator with form-field naming and
// user-facing messages.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	// Report errors against the form field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return &Validator{v: v}
}

// Struct checks the payload and returns nil or the first violated rule.
func (va *Validator) Struct(payload any) *FieldError {
	err := va.v.Struct(payload)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &FieldError{Rule: "internal", Message: err.Error()}
	}
	fe := errs[0]
	return &FieldError{
		Field:   fe.Field(),
		Rule:    fe.Tag(),
		Param:   fe.Param(),
		Message: message(fe),
	}
}

// message renders a rule violation the way the signup and login views
// expect to display it.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "alphanum":
		return fmt.Sprintf("%q must only contain alpha-numeric characters", fe.Field())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%q must be a valid email", fe.Field())
	default:
		return fmt.Sprintf("%q failed the %q rule", fe.Field(), fe.Tag())
	}
}
