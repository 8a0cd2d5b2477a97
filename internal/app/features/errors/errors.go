// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/civichub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the basic view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Heading string
	Message string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "Access denied", "You don't have permission to view this page.", "/")
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, "Sign in required", "Please sign in to continue.", "/login")
}

func render(w http.ResponseWriter, r *http.Request, status int, heading, msg, backURL string) {
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, heading, backURL),
		Heading: heading,
		Message: msg,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "error_page", data)
}
