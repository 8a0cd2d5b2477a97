// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes serves the audit log (mounted at /audit). Admins only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleAdmin))
	r.Get("/", h.ServeList)
	return r
}
