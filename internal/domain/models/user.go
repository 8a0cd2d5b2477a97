// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
	RoleUser   = "user"
)

// User statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// IsValidStatus reports whether status is active or disabled.
func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusDisabled
}

// Roles lists every assignable role.
var Roles = []string{RoleAdmin, RoleWorker, RoleUser}

// IsValidRole reports whether role is one of Roles.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User is anyone who can sign in: administrators, workers and plain users.
//
// NOTE:
//   - Google users are matched on auth_return_id (Google subject) first, then email.
//   - PasswordHash is only set for auth_method "password".
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	FirstName    string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName     string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Email        string             `bson:"email" json:"email"`
	LoginID      string             `bson:"login_id" json:"login_id"`
	LoginIDCI    string             `bson:"login_id_ci" json:"login_id_ci"`
	AuthMethod   string             `bson:"auth_method" json:"auth_method"` // password | google
	AuthReturnID string             `bson:"auth_return_id,omitempty" json:"-"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"`                         // admin | worker | user
	Status       string             `bson:"status,omitempty" json:"status,omitempty"` // active | disabled
	ImageURL     string             `bson:"image_url,omitempty" json:"image_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
