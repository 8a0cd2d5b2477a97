// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/civichub/internal/app/features/errors"
	"github.com/dalemusser/civichub/internal/app/system/authutil"
	"github.com/dalemusser/civichub/internal/app/system/authz"
	"github.com/dalemusser/civichub/internal/app/system/normalize"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/dalemusser/civichub/internal/app/system/viewdata"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type profileData struct {
	viewdata.BaseVM

	FullName   string
	Email      string
	RoleLabel  string
	Picture    string
	AuthMethod string

	// Password section (password accounts only)
	ShowPasswordSection bool
	PasswordRules       string

	Error   string
	Success string
}

// ServeProfile renders the signed-in user's details.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	data := h.viewData(r, user)
	if query.Get(r, "success") == "password" {
		data.Success = "Password changed successfully."
	}
	templates.Render(w, r, "profile", data)
}

// HandleChangePassword verifies the current password and stores a new one.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/profile")
		return
	}
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	if normalize.AuthMethod(user.AuthMethod) != models.AuthPassword {
		h.renderWithError(w, r, user, "Password change is only available for password sign-in.")
		return
	}

	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	switch {
	case !authutil.CheckPassword(current, user.PasswordHash):
		h.renderWithError(w, r, user, "Current password is incorrect.")
		return
	case next != confirm:
		h.renderWithError(w, r, user, "New passwords do not match.")
		return
	case authutil.CheckPassword(next, user.PasswordHash):
		h.renderWithError(w, r, user, "New password cannot be the same as your current password.")
		return
	}
	if err := authutil.ValidatePassword(next); err != nil {
		h.renderWithError(w, r, user, err.Error())
		return
	}

	hash, err := authutil.HashPassword(next)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Failed to update password.", "/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.Users.SetPassword(ctx, user.ID, hash); err != nil {
		h.ErrLog.LogServerError(w, r, "update password failed", err, "Failed to update password.", "/profile")
		return
	}
	h.Log.Info("password changed", zap.String("user_id", user.ID.Hex()))

	http.Redirect(w, r, "/profile?success=password", http.StatusSeeOther)
}

func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, ok := authz.Current(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id.ID)
	if err != nil {
		uierrors.RenderNotFound(w, r, "User not found.", "/")
		return nil, false
	}
	return user, true
}

func (h *Handler) viewData(r *http.Request, u *models.User) profileData {
	method := normalize.AuthMethod(u.AuthMethod)
	return profileData{
		BaseVM:              viewdata.NewBaseVM(r, "Profile", "/"),
		FullName:            u.FullName,
		Email:               u.Email,
		RoleLabel:           roleLabel(u.Role),
		Picture:             u.ImageURL,
		AuthMethod:          authLabel(method),
		ShowPasswordSection: method == models.AuthPassword,
		PasswordRules:       authutil.PasswordRules(),
	}
}

func (h *Handler) renderWithError(w http.ResponseWriter, r *http.Request, u *models.User, msg string) {
	data := h.viewData(r, u)
	data.Error = msg
	w.WriteHeader(http.StatusBadRequest)
	templates.Render(w, r, "profile", data)
}

func roleLabel(role string) string {
	switch normalize.Role(role) {
	case models.RoleAdmin:
		return "Administrator"
	case models.RoleWorker:
		return "Worker"
	default:
		return "User"
	}
}

func authLabel(method string) string {
	switch method {
	case models.AuthGoogle:
		return "Google"
	case models.AuthPassword:
		return "Password"
	default:
		return method
	}
}
