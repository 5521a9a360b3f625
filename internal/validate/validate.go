// Package validate performs client-side pre-submit validation of dialog
// forms. A failed validation blocks the network call entirely; the caller
// renders the per-field messages inline.
package validate

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps form field names to inline error messages.
type FieldErrors map[string]string

// Ok reports whether the form passed validation.
func (e FieldErrors) Ok() bool { return len(e) == 0 }

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{6,19}$`)
	digitPattern = regexp.MustCompile(`[0-9]`)
	alphaPattern = regexp.MustCompile(`[a-zA-Z]`)
)

var (
	validateOnce sync.Once
	v            *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails for blank tags; these are constants.
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return len(s) >= 8 && digitPattern.MatchString(s) && alphaPattern.MatchString(s)
		})
	})
	return v
}

// UserForm is the user create/edit dialog. Password is validated only when
// present (edits may leave it blank to keep the current one).
type UserForm struct {
	Username  string `validate:"required,min=3,max=30"`
	Email     string `validate:"required,email"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Phone     string `validate:"omitempty,phone"`
	Password  string `validate:"omitempty,password"`
	Role      string `validate:"required,oneof=admin staff"`
}

// CustomerForm is the customer create/edit dialog.
type CustomerForm struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Phone     string `validate:"required,phone"`
	Email     string `validate:"omitempty,email"`
}

// TransactionForm is the order create/edit dialog.
type TransactionForm struct {
	CustomerID int     `validate:"required,gt=0"`
	ServiceID  int     `validate:"required,gt=0"`
	Quantity   float64 `validate:"required,gt=0"`
}

// Check validates any of the form structs above and returns inline
// per-field messages, keyed by the lowercased field name.
func Check(form any) FieldErrors {
	err := instance().Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{"form": "invalid input"}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[strings.ToLower(fe.Field())] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "phone":
		return "enter a valid phone number"
	case "password":
		return "password needs at least 8 characters with letters and digits"
	case "min":
		return "too short (minimum " + fe.Param() + ")"
	case "max":
		return "too long (maximum " + fe.Param() + ")"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "invalid value"
	}
}
