// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in (their email by default)

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/civichub/internal/app/features/errors"
	loginstore "github.com/dalemusser/civichub/internal/app/store/logins"
	userstore "github.com/dalemusser/civichub/internal/app/store/users"
	"github.com/dalemusser/civichub/internal/app/system/auditlog"
	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/dalemusser/civichub/internal/app/system/authutil"
	"github.com/dalemusser/civichub/internal/app/system/normalize"
	"github.com/dalemusser/civichub/internal/app/system/ratelimit"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/dalemusser/civichub/internal/app/system/viewdata"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users         *userstore.Store
	Logins        *loginstore.Store
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	AuditLog      *auditlog.Logger
	Limiter       *ratelimit.LoginLimiter
	GoogleEnabled bool // True if Google OAuth is configured
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	limiter *ratelimit.LoginLimiter,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:         userstore.New(db),
		Logins:        loginstore.New(db),
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		AuditLog:      audit,
		Limiter:       limiter,
		GoogleEnabled: googleEnabled,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	LoginID       string // What the user typed
	ReturnURL     string
	GoogleEnabled bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// oauthErrors maps the error codes the Google callback redirects with.
var oauthErrors = map[string]string{
	"google_not_configured": "Google sign-in is not configured.",
	"access_denied":         "Google sign-in was cancelled.",
	"invalid_state":         "Your sign-in link expired. Please try again.",
	"missing_code":          "Google did not return a sign-in code. Please try again.",
	"account_disabled":      "Your account is currently disabled. Please contact an administrator.",
	"session_failed":        "Unable to create session. Please try again.",
	"oauth_failed":          "Google sign-in failed. Please try again.",
}

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:         oauthErrors[query.Get(r, "error")],
		ReturnURL:     query.Get(r, "return"),
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	loginID := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if loginID == "" || password == "" {
		h.renderFormWithError(w, r, http.StatusBadRequest, "Please enter your email and password.", loginID)
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, loginID); !ok {
			h.AuditLog.LoginFailedRateLimit(r.Context(), r, loginID)
			h.renderFormWithError(w, r, http.StatusTooManyRequests, reason, loginID)
			return
		}
	}

	/*── look-up user by login_id_ci (case/diacritic-insensitive) ──────────*/

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByLoginID(ctx, loginID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		h.AuditLog.LoginFailedUserNotFound(ctx, r, loginID)
		h.renderFormWithError(w, r, http.StatusUnauthorized, "Invalid email or password.", loginID)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find user", err, "A server error occurred.", "/login")
		return
	}

	/*── check status: disabled users cannot log in ────────────────────────*/

	if normalize.Status(u.Status) == models.StatusDisabled {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, loginID)
		h.renderFormWithError(w, r, http.StatusForbidden,
			"Your account is currently disabled. Please contact an administrator.", loginID)
		return
	}

	ret := strings.TrimSpace(r.FormValue("return"))

	/*── google accounts sign in through OAuth ─────────────────────────────*/

	if normalize.AuthMethod(u.AuthMethod) == models.AuthGoogle {
		if !h.GoogleEnabled {
			h.renderFormWithError(w, r, http.StatusBadRequest,
				"Google sign-in is not configured. Please contact an administrator.", loginID)
			return
		}
		dest := "/auth/google"
		if safe := urlutil.SafeReturn(ret, "", ""); safe != "" {
			dest += "?return=" + safe
		}
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}

	if !authutil.CheckPassword(password, u.PasswordHash) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, loginID)
		h.renderFormWithError(w, r, http.StatusUnauthorized, "Invalid email or password.", loginID)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetAccount(loginID)
	}
	h.createSessionAndRedirect(ctx, w, r, u, ret)
}

// createSessionAndRedirect signs the user in and sends them to the return
// URL or their role's landing page.
func (h *Handler) createSessionAndRedirect(ctx context.Context, w http.ResponseWriter, r *http.Request, u *models.User, returnURL string) {
	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("login_id", u.LoginID))
		h.renderFormWithError(w, r, http.StatusInternalServerError, "Unable to create session. Please try again.", u.LoginID)
		return
	}

	if err := h.Logins.CreateFrom(ctx, r, u.ID, models.AuthPassword); err != nil {
		h.Log.Warn("record login failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, models.AuthPassword, u.LoginID)

	dest := urlutil.SafeReturn(returnURL, "", authutil.LandingPath(u.Role))
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, status int, msg, loginID string) {
	// From POST, "return" will be in the form; from GET, we might rely on the query.
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	w.WriteHeader(status)
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:         msg,
		LoginID:       loginID,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}
