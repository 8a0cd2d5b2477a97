// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
)

func back(r *http.Request, backURL, fallback string) string {
	if backURL != "" {
		return backURL
	}
	return httpnav.ResolveBackURL(r, fallback)
}

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	render(w, r, http.StatusUnauthorized, "Sign in required", "Please sign in to continue.", backURL)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusForbidden, "Access denied", msg, back(r, backURL, "/"))
}

// RenderNotFound shows the not-found page with status 404.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "We couldn't find what you were looking for."
	}
	render(w, r, http.StatusNotFound, "Not found", msg, back(r, backURL, "/"))
}

// RenderBadRequest shows a page for input the server could not accept.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusBadRequest, "Something is wrong with that request", msg, back(r, backURL, "/"))
}

// RenderServerError shows the generic failure page with status 500.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "Something went wrong on our side."
	}
	render(w, r, http.StatusInternalServerError, "Something went wrong", msg, back(r, backURL, "/"))
}

// WriteJSONError writes {"error": msg} with status.
func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
