package records

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/civichub/internal/app/policy/recordpolicy"
	recordstore "github.com/dalemusser/civichub/internal/app/store/records"
	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/civichub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// mountKind mounts a kind the way bootstrap does: resource routes at prefix
// and the owner listing at mine.
func mountKind[T models.Record](t *testing.T, parent chi.Router, h *Handler[T], prefix, mine string) {
	t.Helper()
	sm, err := auth.NewSessionManager(strings.Repeat("k", 32), "test-session", "", time.Hour, false, zap.NewNop())
	require.NoError(t, err)
	parent.Mount(prefix, Routes(h, sm))
	parent.Mount(mine, MineRoutes(h, sm))
}

func TestRoutes_Guards(t *testing.T) {
	e := newEnv(t)
	parent := chi.NewRouter()
	mountKind(t, parent, newHandler[models.Project](e, recordstore.Projects, recordpolicy.Projects, "/project"), "/project", "/projects")
	mountKind(t, parent, newHandler[models.Investment](e, recordstore.Investments, recordpolicy.Investments, "/investment"), "/investment", "/investments")
	mountKind(t, parent, newHandler[models.Worker](e, recordstore.Workers, recordpolicy.Workers, "/worker"), "/worker", "/workers")

	anyID := primitive.NewObjectID().Hex()
	anon := (*testutil.TestUser)(nil)
	admin, worker, plain := testutil.AdminUser(), testutil.WorkerUser(), testutil.PlainUser()

	tests := []struct {
		name     string
		user     *testutil.TestUser
		method   string
		target   string
		location string // "" means the guard let the request through
	}{
		{"project index is public", anon, http.MethodGet, "/project/", ""},
		{"project add needs sign-in", anon, http.MethodGet, "/project/add", "/login?return=%2Fproject%2Fadd"},
		{"project add refuses plain users", &plain, http.MethodGet, "/project/add", "/forbidden"},
		{"project add allows workers", &worker, http.MethodGet, "/project/add", ""},
		{"project by owner is admin only", &worker, http.MethodGet, "/project/user/" + anyID, "/forbidden"},
		{"project search needs sign-in", anon, http.MethodGet, "/project/search/image", "/login?return=%2Fproject%2Fsearch%2Fimage"},
		{"project search allows workers", &worker, http.MethodGet, "/project/search/image", ""},
		{"own projects need sign-in", anon, http.MethodGet, "/projects", "/login?return=%2Fprojects"},
		{"own projects allow plain users", &plain, http.MethodGet, "/projects", ""},
		{"investment show is public", anon, http.MethodGet, "/investment/" + anyID, ""},
		{"investment search is public", anon, http.MethodGet, "/investment/search?query=solar", ""},
		{"own investments are admin only", &worker, http.MethodGet, "/investments", "/forbidden"},
		{"worker add is admin only", &worker, http.MethodGet, "/worker/add", "/forbidden"},
		{"worker delete needs sign-in", anon, http.MethodDelete, "/worker/" + anyID, "/login?return=%2Fworker%2F" + anyID},
		{"worker delete allows plain users", &plain, http.MethodDelete, "/worker/" + anyID, ""},
		{"own workers allow admins", &admin, http.MethodGet, "/workers", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequest(tt.method, tt.target)
			req.Header.Set("Accept", "text/html")
			if tt.user != nil {
				req = testutil.WithUser(req, *tt.user)
			}

			rec := serve(t, parent.ServeHTTP, req)

			if tt.location != "" {
				assert.Equal(t, http.StatusSeeOther, rec.Code)
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
				return
			}
			assert.NotContains(t, []int{http.StatusUnauthorized, http.StatusForbidden}, rec.Code)
			assert.NotContains(t, rec.Header().Get("Location"), "/login")
			assert.NotEqual(t, "/forbidden", rec.Header().Get("Location"))
		})
	}
}

func TestRoutes_SearchPathWinsOverID(t *testing.T) {
	e := newEnv(t)
	parent := chi.NewRouter()
	mountKind(t, parent, newHandler[models.Investment](e, recordstore.Investments, recordpolicy.Investments, "/investment"), "/investment", "/investments")

	for _, target := range []string{"/investment/search/image", "/investment/search"} {
		rec := serve(t, parent.ServeHTTP, testutil.NewRequest(http.MethodGet, target))
		// A show of the id "search" would answer not-found.
		assert.NotEqual(t, http.StatusNotFound, rec.Code, target)
	}
}
