// internal/app/features/records/routes.go
package records

import (
	"net/http"

	"github.com/dalemusser/civichub/internal/app/policy/recordpolicy"
	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the kind's routes under whatever prefix the caller chooses.
// Each route carries the access guard from the kind's policy table; owner
// checks happen in the handlers.
//
// Example from bootstrap:
//
//	workers := records.NewHandler(workerStore, recordpolicy.Workers, "/worker", deps)
//	r.Mount("/worker", records.Routes(workers, sessionMgr))
func Routes[T models.Record](h *Handler[T], sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	t := h.Table
	guard := func(rule recordpolicy.Rule) func(http.Handler) http.Handler {
		return recordpolicy.Guard(sm, rule.Access)
	}

	// LIST
	r.With(guard(t.Index)).Get("/", h.ServeIndex)

	// CREATE
	r.With(guard(t.Add)).Get("/add", h.ServeAdd)
	r.With(guard(t.Create)).Post("/", h.HandleCreate)

	// SEARCH
	r.With(guard(t.Search)).Get("/search", h.ServeSearch)
	r.With(guard(t.Search)).Get("/search/{query}", h.ServeSearch)

	// BY OWNER
	r.With(guard(t.ByOwner)).Get("/user/{userId}", h.ServeByOwner)

	// EDIT
	r.With(guard(t.Edit)).Get("/edit/{id}", h.ServeEdit)
	r.With(guard(t.Update)).Post("/{id}", h.HandleUpdate)
	r.With(guard(t.Update)).Put("/{id}", h.HandleUpdate)

	// VIEW
	r.With(guard(t.Show)).Get("/{id}", h.ServeShow)
	r.With(guard(t.Show)).Get("/{id}/image", h.ServeImage)

	// DELETE (forms post with _method=DELETE)
	r.With(guard(t.Delete)).Delete("/{id}", h.HandleDelete)

	return r
}

// MineRoutes mounts the requester's own listing (/workers, /projects, ...).
func MineRoutes[T models.Record](h *Handler[T], sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.With(recordpolicy.Guard(sm, h.Table.Mine.Access)).Get("/", h.ServeMine)
	return r
}
