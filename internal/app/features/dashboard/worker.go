// internal/app/features/dashboard/worker.go
package dashboard

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/civichub/internal/app/features/errors"
	metricsstore "github.com/dalemusser/civichub/internal/app/store/metrics"
	recordstore "github.com/dalemusser/civichub/internal/app/store/records"
	"github.com/dalemusser/civichub/internal/app/system/authz"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/dalemusser/civichub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type workerData struct {
	viewdata.BaseVM
	Counts   metricsstore.OwnerCounts
	Projects []item
	News     []item
}

// ServeWorker renders the requester's own projects and news.
func (h *Handler) ServeWorker(w http.ResponseWriter, r *http.Request) {
	id, ok := authz.Current(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := workerData{
		BaseVM: viewdata.NewBaseVM(r, "My Dashboard", "/"),
		Counts: metricsstore.FetchOwnerCounts(ctx, h.DB, id.ID),
	}

	projects, err := h.Projects.ListByOwner(ctx, id.ID, recordstore.ListOptions{})
	if err != nil {
		h.Log.Warn("dashboard own projects failed", zap.Error(err), zap.String("user_id", id.ID.Hex()))
	}
	data.Projects = items(projects, "/project")

	news, err := h.News.ListByOwner(ctx, id.ID, recordstore.ListOptions{})
	if err != nil {
		h.Log.Warn("dashboard own news failed", zap.Error(err), zap.String("user_id", id.ID.Hex()))
	}
	data.News = items(news, "/news")

	templates.Render(w, r, "worker_dashboard", data)
}
