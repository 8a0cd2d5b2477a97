// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/civichub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is the requester as seen by handlers and policies. Handlers take
// it once per request and pass it explicitly; nothing reads a global.
type Identity struct {
	ID   primitive.ObjectID
	Role string // lowercased
	Name string
}

// Anonymous is the identity of a request with no signed-in user.
var Anonymous = Identity{Role: "visitor"}

// SignedIn reports whether the identity belongs to a signed-in user.
func (id Identity) SignedIn() bool { return !id.ID.IsZero() }

// IsAdmin reports whether the identity has the admin role.
func (id Identity) IsAdmin() bool { return id.SignedIn() && id.Role == "admin" }

// HasAnyRole reports whether the identity has one of roles (case-insensitive).
func (id Identity) HasAnyRole(roles ...string) bool {
	if !id.SignedIn() {
		return false
	}
	for _, want := range roles {
		if id.Role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// Owns reports whether the identity is the owner recorded as ownerID.
func (id Identity) Owns(ownerID primitive.ObjectID) bool {
	return id.SignedIn() && id.ID == ownerID
}

// Current returns the requester's identity. A missing user or a malformed
// id in the session yields Anonymous and false.
func Current(r *http.Request) (Identity, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return Anonymous, false
	}
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return Anonymous, false
	}
	return Identity{ID: oid, Role: strings.ToLower(user.Role), Name: user.Name}, true
}

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present it returns "visitor", "", NilObjectID, false.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	id, ok := Current(r)
	return id.Role, id.Name, id.ID, ok
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	id, _ := Current(r)
	return id.IsAdmin()
}

// IsWorker reports whether the current request's user is a worker.
func IsWorker(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "worker"
}
