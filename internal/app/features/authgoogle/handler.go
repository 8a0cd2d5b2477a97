// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	uierrors "github.com/dalemusser/civichub/internal/app/features/errors"
	loginstore "github.com/dalemusser/civichub/internal/app/store/logins"
	"github.com/dalemusser/civichub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/civichub/internal/app/store/users"
	"github.com/dalemusser/civichub/internal/app/system/auditlog"
	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/dalemusser/civichub/internal/app/system/authutil"
	"github.com/dalemusser/civichub/internal/app/system/normalize"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateTTL           = 10 * time.Minute
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Handler runs the Google OAuth2 sign-in flow.
type Handler struct {
	Users      *userstore.Store
	Logins     *loginstore.Store
	StateStore *oauthstate.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string
	DefaultRole  string

	// Endpoint and UserInfoURL default to Google's; tests point them elsewhere.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	clientID, clientSecret, baseURL, defaultRole string,
	logger *zap.Logger,
) *Handler {
	if defaultRole = normalize.Role(defaultRole); defaultRole == "" {
		defaultRole = models.RoleUser
	}
	return &Handler{
		Users:        userstore.New(db),
		Logins:       loginstore.New(db),
		StateStore:   oauthstate.New(db),
		Log:          logger,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		AuditLog:     audit,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  strings.TrimRight(baseURL, "/") + "/auth/google/callback",
		DefaultRole:  defaultRole,
		Endpoint:     google.Endpoint,
		UserInfoURL:  defaultUserInfoURL,
	}
}

// IsConfigured reports whether client credentials are present.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: h.Endpoint,
	}
}

// googleUserInfo is the subset of the userinfo response we use.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeLogin stores a one-time state token and redirects to Google's consent page.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.loginError(w, r, "google_not_configured")
		return
	}

	state := uuid.NewString()
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.StateStore.Save(ctx, state, ret, time.Now().UTC().Add(stateTTL)); err != nil {
		h.Log.Error("save oauth state failed", zap.Error(err))
		h.loginError(w, r, "oauth_failed")
		return
	}

	authURL := h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeCallback exchanges the code, provisions or links the user, and signs
// them in.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if e := query.Get(r, "error"); e != "" {
		h.Log.Info("google sign-in declined", zap.String("error", e))
		h.loginError(w, r, "access_denied")
		return
	}

	state := query.Get(r, "state")
	if state == "" {
		h.loginError(w, r, "invalid_state")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(ctx, state)
	if err != nil {
		h.Log.Error("validate oauth state failed", zap.Error(err))
		h.loginError(w, r, "oauth_failed")
		return
	}
	if !valid {
		h.loginError(w, r, "invalid_state")
		return
	}

	code := query.Get(r, "code")
	if code == "" {
		h.loginError(w, r, "missing_code")
		return
	}

	cfg := h.oauth2Config()
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		h.Log.Warn("oauth code exchange failed", zap.Error(err))
		h.loginError(w, r, "oauth_failed")
		return
	}

	info, err := h.fetchUserInfo(ctx, cfg, tok)
	if err != nil {
		h.Log.Warn("fetch google userinfo failed", zap.Error(err))
		h.loginError(w, r, "oauth_failed")
		return
	}

	u, created, err := h.Users.UpsertGoogle(ctx, userstore.GoogleProfile{
		Subject:   info.ID,
		Email:     info.Email,
		FullName:  info.Name,
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
		Picture:   info.Picture,
	}, h.DefaultRole)
	if err != nil {
		h.Log.Error("provision google user failed", zap.Error(err), zap.String("email", info.Email))
		h.loginError(w, r, "oauth_failed")
		return
	}
	if created {
		h.AuditLog.UserProvisioned(ctx, r, u.ID, u.Email, u.Role)
	}

	if normalize.Status(u.Status) == models.StatusDisabled {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, u.LoginID)
		h.loginError(w, r, "account_disabled")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		h.loginError(w, r, "session_failed")
		return
	}
	if err := h.Logins.CreateFrom(ctx, r, u.ID, models.AuthGoogle); err != nil {
		h.Log.Warn("record login failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, models.AuthGoogle, u.LoginID)

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", authutil.LandingPath(u.Role)), http.StatusSeeOther)
}

func (h *Handler) fetchUserInfo(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) (*googleUserInfo, error) {
	resp, err := cfg.Client(ctx, tok).Get(h.UserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("userinfo missing id or email")
	}
	return &info, nil
}

func (h *Handler) loginError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/login?error="+url.QueryEscape(code), http.StatusSeeOther)
}
