// Package authutil holds password rules and post-sign-in navigation shared by
// the login, Google sign-in and admin CLI paths.
package authutil

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 128

	// bcryptCost matches what the user store has always written.
	bcryptCost = 12
)

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	ErrPasswordCommon   = errors.New("password is too common; choose another")
)

var commonPasswords = map[string]struct{}{
	"123456": {}, "1234567": {}, "12345678": {}, "123456789": {}, "password": {},
	"qwerty": {}, "abc123": {}, "iloveyou": {}, "letmein": {}, "football": {},
	"welcome": {}, "monkey": {}, "dragon": {}, "admin123": {}, "passw0rd": {},
}

// ValidatePassword checks length bounds and rejects well-known passwords.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(pw) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if _, common := commonPasswords[strings.ToLower(pw)]; common {
		return ErrPasswordCommon
	}
	return nil
}

// PasswordRules describes ValidatePassword for form help text.
func PasswordRules() string {
	return fmt.Sprintf("At least %d characters. Avoid common passwords.", MinPasswordLength)
}

// HashPassword bcrypt-hashes pw.
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether pw matches hash.
func CheckPassword(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// LandingPath is where a user goes after signing in when no return URL was given.
func LandingPath(role string) string {
	switch strings.ToLower(role) {
	case "admin":
		return "/admin"
	case "worker":
		return "/homeworker"
	default:
		return "/"
	}
}
