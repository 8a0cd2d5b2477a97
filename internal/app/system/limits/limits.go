// internal/app/system/limits/limits.go
package limits

import (
	"mime"
	"net/http"
)

// Request body size limits.
const (
	// FormFieldsAllowance bounds a form without files, and is added to the
	// image limit for multipart record forms to cover the text fields.
	FormFieldsAllowance = 1 << 20 // 1 MB
)

// ForRequest returns the body limit for r given the configured image limit.
func ForRequest(r *http.Request, maxUpload int64) int64 {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		return maxUpload + FormFieldsAllowance
	}
	return FormFieldsAllowance
}

// MaxBody caps every request body. It must run before anything that parses
// forms (method override, CSRF) so the cap applies to that first parse.
// A declared Content-Length over the cap is refused outright.
func MaxBody(maxUpload int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}
			n := ForRequest(r, maxUpload)
			if r.ContentLength > n {
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
