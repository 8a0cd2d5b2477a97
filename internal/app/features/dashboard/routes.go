// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// AdminRoutes serves /admin.
func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleAdmin))
	r.Get("/", h.ServeAdmin)
	return r
}

// WorkerRoutes serves /homeworker; admins may view their own as well.
func WorkerRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleAdmin, models.RoleWorker))
	r.Get("/", h.ServeWorker)
	return r
}
