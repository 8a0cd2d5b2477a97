// internal/app/features/dashboard/admin.go
package dashboard

import (
	"context"
	"net/http"

	metricsstore "github.com/dalemusser/civichub/internal/app/store/metrics"
	recordstore "github.com/dalemusser/civichub/internal/app/store/records"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/dalemusser/civichub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type loginRow struct {
	UserName string
	Provider string
	When     string
	IP       string
}

type adminData struct {
	viewdata.BaseVM
	Counts       metricsstore.Counts
	LatestNews   []item
	RecentLogins []loginRow
}

// ServeAdmin renders record counts, the latest news and recent sign-ins.
// Panels degrade to empty on lookup errors.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := adminData{
		BaseVM: viewdata.NewBaseVM(r, "Admin Dashboard", "/"),
		Counts: metricsstore.FetchDashboardCounts(ctx, h.DB),
	}

	news, err := h.News.ListAll(ctx, recordstore.ListOptions{Newest: true, Limit: latestNewsLimit})
	if err != nil {
		h.Log.Warn("dashboard latest news failed", zap.Error(err))
	}
	data.LatestNews = items(news, "/news")

	logins, err := h.Logins.Recent(ctx, recentLoginsLimit)
	if err != nil {
		h.Log.Warn("dashboard recent logins failed", zap.Error(err))
	}
	for _, l := range logins {
		name := l.UserID.Hex()
		if u, err := h.Users.GetByID(ctx, l.UserID); err == nil {
			name = u.FullName
		}
		data.RecentLogins = append(data.RecentLogins, loginRow{
			UserName: name,
			Provider: l.Provider,
			When:     formatWhen(l.CreatedAt),
			IP:       l.IP,
		})
	}

	templates.Render(w, r, "admin_dashboard", data)
}
