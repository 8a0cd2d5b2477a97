// internal/domain/models/authmethods.go
package models

// Auth methods a user record can carry.
const (
	AuthPassword = "password"
	AuthGoogle   = "google"
)

// AuthMethod is an authentication option shown in the UI.
type AuthMethod struct {
	Value string
	Label string
}

var AllAuthMethods = []AuthMethod{
	{Value: AuthPassword, Label: "Password"},
	{Value: AuthGoogle, Label: "Google"},
}

// IsValidAuthMethod checks if a value is a valid auth method.
func IsValidAuthMethod(value string) bool {
	for _, m := range AllAuthMethods {
		if m.Value == value {
			return true
		}
	}
	return false
}
