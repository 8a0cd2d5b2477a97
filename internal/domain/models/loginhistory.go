// internal/domain/models/loginhistory.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginRecord captures a single successful sign-in.
// CreatedAt is indexed for the recent-logins panel on the admin dashboard.
type LoginRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	CreatedAt time.Time          `bson:"created_at"`
	IP        string             `bson:"ip"`
	Provider  string             `bson:"provider"` // password | google
}
