// Package recordpolicy holds the per-kind, per-route authorization tables for
// owned records (workers, projects, investments, news).
//
// Authorization rules:
//   - Access is checked by route middleware before the handler runs (Guard)
//   - Owner checks need the stored record and run inside the handler (CanAct)
//   - A failed owner check either redirects to the kind's list or renders
//     not-found, as the rule's OnDenied says
//   - The tables are deliberately not uniform; each kind keeps its own rules
package recordpolicy

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - OwnerID / ownerID: the user_id stored on a record

import (
	"net/http"

	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/dalemusser/civichub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Access is the authentication/role requirement of a route.
type Access int

const (
	Public Access = iota
	SignedIn
	Admin
	AdminOrWorker
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case SignedIn:
		return "signed-in"
	case Admin:
		return "admin"
	case AdminOrWorker:
		return "admin-or-worker"
	}
	return "unknown"
}

// Owner is the record-level check applied after the record is loaded.
type Owner int

const (
	None Owner = iota
	OwnerOnly
	OwnerOrAdmin
)

// Denial is what the user sees when the owner check fails.
type Denial int

const (
	RedirectList Denial = iota
	NotFound
)

// Rule is the policy for one route.
type Rule struct {
	Access   Access
	Owner    Owner
	OnDenied Denial
}

// Table is the policy for every route of one record kind.
type Table struct {
	Index   Rule // GET /
	Show    Rule // GET /{id} and GET /{id}/image
	Add     Rule // GET /add
	Create  Rule // POST /
	Edit    Rule // GET /edit/{id}
	Update  Rule // POST|PUT /{id}
	Delete  Rule // DELETE /{id}
	ByOwner Rule // GET /user/{userId}
	Search  Rule // GET /search
	Mine    Rule // the requester's own listing (/workers, /projects, ...)
}

// Guard returns the middleware enforcing access.
func Guard(sm *auth.SessionManager, access Access) func(http.Handler) http.Handler {
	switch access {
	case SignedIn:
		return sm.RequireSignedIn
	case Admin:
		return sm.RequireRole("admin")
	case AdminOrWorker:
		return sm.RequireRole("admin", "worker")
	}
	return func(next http.Handler) http.Handler { return next }
}

// CanAct reports whether id passes rule's owner check for a record owned by
// ownerID. Anonymous identities own nothing.
func CanAct(id authz.Identity, rule Rule, ownerID primitive.ObjectID) bool {
	switch rule.Owner {
	case OwnerOnly:
		return id.Owns(ownerID)
	case OwnerOrAdmin:
		return id.IsAdmin() || id.Owns(ownerID)
	}
	return true
}

// Allows reports whether id satisfies access. Guard enforces the same rule
// as middleware; Allows is for deciding what links a page shows.
func Allows(id authz.Identity, access Access) bool {
	switch access {
	case SignedIn:
		return id.SignedIn()
	case Admin:
		return id.IsAdmin()
	case AdminOrWorker:
		return id.HasAnyRole("admin", "worker")
	}
	return true
}
