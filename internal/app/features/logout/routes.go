// internal/app/features/logout/routes.go
package logout

import (
	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves /logout. The menu posts the form; GET keeps old links working.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeLogout)
	r.Post("/", h.ServeLogout)
	return r
}
