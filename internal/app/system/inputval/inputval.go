// Package inputval checks single form values with go-playground/validator
// rule strings and turns failures into user-facing messages.
package inputval

import (
	"net/mail"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		// Stricter than the built-in "email": bare RFC 5322 address only.
		_ = v.RegisterValidation("mailaddr", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
	})
	return v
}

// Var checks a single value against rules (validator tag syntax) and returns
// the message for the first failure, labelled with label.
func Var(label, value, rules string) (string, bool) {
	if rules == "" {
		return "", true
	}
	err := get().Var(value, rules)
	if err == nil {
		return "", true
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return message(label, verrs[0].Tag(), verrs[0].Param()), false
	}
	return label + " is invalid.", false
}

func message(label, tag, param string) string {
	switch tag {
	case "required":
		return label + " is required."
	case "max":
		return label + " must be at most " + param + " characters."
	case "min":
		return label + " must be at least " + param + " characters."
	case "email", "mailaddr":
		return "A valid email address is required."
	case "oneof":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "numeric", "number":
		return label + " must be a number."
	default:
		return label + " is invalid."
	}
}

// IsValidEmail reports whether s is a bare RFC 5322 address (no display name).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == s
}
