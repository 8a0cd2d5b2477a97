package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/civichub/internal/app/features/dashboard"
	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/dalemusser/civichub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(strings.Repeat("k", 32), "test-session", "", time.Hour, false, logger)
	require.NoError(t, err)

	h := dashboard.NewHandler(db, logger)
	r := chi.NewRouter()
	r.Mount("/admin", dashboard.AdminRoutes(h, sm))
	r.Mount("/homeworker", dashboard.WorkerRoutes(h, sm))
	return r
}

// serve records the response; the page render itself may panic when no
// template engine is booted, which is fine for guard checks.
func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Logf("template render panicked (expected without engine): %v", r)
			}
		}()
		h.ServeHTTP(rec, req)
	}()
	return rec
}

func TestDashboardGuards(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		name     string
		path     string
		user     *testutil.TestUser
		wantCode int
		wantLoc  string
	}{
		{"admin page anonymous", "/admin", nil, http.StatusSeeOther, "/login?return=%2Fadmin"},
		{"admin page worker", "/admin", ptr(testutil.WorkerUser()), http.StatusSeeOther, "/forbidden"},
		{"admin page plain user", "/admin", ptr(testutil.PlainUser()), http.StatusSeeOther, "/forbidden"},
		{"worker page anonymous", "/homeworker", nil, http.StatusSeeOther, "/login?return=%2Fhomeworker"},
		{"worker page plain user", "/homeworker", ptr(testutil.PlainUser()), http.StatusSeeOther, "/forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Accept", "text/html")
			if tt.user != nil {
				req = testutil.WithUser(req, *tt.user)
			}
			rec := serve(t, r, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
		})
	}
}

func TestDashboardGuards_Allowed(t *testing.T) {
	r := newRouter(t)

	for _, tc := range []struct {
		path string
		user testutil.TestUser
	}{
		{"/admin", testutil.AdminUser()},
		{"/homeworker", testutil.WorkerUser()},
		{"/homeworker", testutil.AdminUser()},
	} {
		req := testutil.WithUser(httptest.NewRequest(http.MethodGet, tc.path, nil), tc.user)
		req.Header.Set("Accept", "text/html")
		rec := serve(t, r, req)
		assert.Empty(t, rec.Header().Get("Location"), "%s as %s", tc.path, tc.user.Role)
	}
}

func ptr(u testutil.TestUser) *testutil.TestUser { return &u }
