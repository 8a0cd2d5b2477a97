package authgoogle_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/civichub/internal/app/features/authgoogle"
	uierrors "github.com/dalemusser/civichub/internal/app/features/errors"
	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/civichub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func newHandler(t *testing.T, db *mongo.Database, clientID, clientSecret string) *authgoogle.Handler {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(strings.Repeat("k", 32), "test-session", "", time.Hour, false, logger)
	require.NoError(t, err)
	return authgoogle.NewHandler(db, sm, uierrors.NewErrorLogger(logger), nil,
		clientID, clientSecret, "http://localhost:8080/", "", logger)
}

// fakeGoogle serves a token endpoint and a userinfo endpoint.
func fakeGoogle(t *testing.T, info map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(info)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func pointAt(h *authgoogle.Handler, srv *httptest.Server) {
	h.Endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	h.UserInfoURL = srv.URL + "/userinfo"
}

func TestNewHandler_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db, "id", "secret")

	assert.True(t, h.IsConfigured())
	assert.Equal(t, "http://localhost:8080/auth/google/callback", h.RedirectURL)
	assert.Equal(t, models.RoleUser, h.DefaultRole)
}

func TestIsConfigured_MissingSecret(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db, "id", "")
	assert.False(t, h.IsConfigured())
}

func TestServeLogin_NotConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db, "", "")

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?error=google_not_configured", rec.Header().Get("Location"))
}

func TestServeLogin_StoresState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db, "id", "secret")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest(http.MethodGet, "/auth/google?return=/news", nil))

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", loc.Host)

	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	var doc bson.M
	require.NoError(t, db.Collection("oauth_states").FindOne(ctx, bson.M{"state": state}).Decode(&doc))
	assert.Equal(t, "/news", doc["return_url"])
}

func TestServeCallback_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db, "id", "secret")

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"declined", "?error=access_denied", "/login?error=access_denied"},
		{"missing state", "?code=abc", "/login?error=invalid_state"},
		{"unknown state", "?state=nope&code=abc", "/login?error=invalid_state"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback"+tt.query, nil))
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestServeCallback_StateIsSingleUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db, "id", "secret")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	require.NoError(t, h.StateStore.Save(ctx, "s-1", "", time.Now().Add(time.Minute)))

	// First use passes the state check and stops at the missing code.
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=s-1", nil))
	assert.Equal(t, "/login?error=missing_code", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=s-1&code=abc", nil))
	assert.Equal(t, "/login?error=invalid_state", rec.Header().Get("Location"))
}

func TestServeCallback_ProvisionsNewUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db, "id", "secret")
	srv := fakeGoogle(t, map[string]any{
		"id":             "g-42",
		"email":          "grace@example.com",
		"verified_email": true,
		"name":           "Grace Hopper",
		"given_name":     "Grace",
		"family_name":    "Hopper",
		"picture":        "https://example.com/grace.png",
	})
	pointAt(h, srv)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, h.StateStore.Save(ctx, "s-2", "/news", time.Now().Add(time.Minute)))

	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=s-2&code=abc", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/news", rec.Header().Get("Location"))

	var u models.User
	require.NoError(t, db.Collection("users").FindOne(ctx, bson.M{"auth_return_id": "g-42"}).Decode(&u))
	assert.Equal(t, "grace@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, models.AuthGoogle, u.AuthMethod)
	assert.Equal(t, "https://example.com/grace.png", u.ImageURL)

	n, err := db.Collection("login_records").CountDocuments(ctx, bson.M{"user_id": u.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestServeCallback_DisabledUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := newHandler(t, db, "id", "secret")
	srv := fakeGoogle(t, map[string]any{
		"id":    "g-7",
		"email": "off@example.com",
		"name":  "Off Line",
	})
	pointAt(h, srv)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateDisabledUser(ctx, "Off Line", "off@example.com")
	require.NoError(t, h.StateStore.Save(ctx, "s-3", "", time.Now().Add(time.Minute)))

	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=s-3&code=abc", nil))

	assert.Equal(t, "/login?error=account_disabled", rec.Header().Get("Location"))
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, "test-session", c.Name)
	}
}
