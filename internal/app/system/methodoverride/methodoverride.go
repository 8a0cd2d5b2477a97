// Package methodoverride lets HTML forms reach PUT and DELETE routes. A POST
// carrying X-HTTP-Method-Override or a url-encoded _method field is routed
// as that method.
package methodoverride

import (
	"net/http"
	"strings"
)

// FormField is the hidden form input read by Middleware.
const FormField = "_method"

// HeaderName is the request header read by Middleware.
const HeaderName = "X-HTTP-Method-Override"

var allowed = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Middleware rewrites r.Method before routing. Only POST requests are
// rewritten and only to PUT, PATCH or DELETE. Multipart bodies are left
// unparsed; those forms use the header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			m := strings.ToUpper(strings.TrimSpace(r.Header.Get(HeaderName)))
			if m == "" && isURLEncoded(r) {
				m = strings.ToUpper(strings.TrimSpace(r.PostFormValue(FormField)))
			}
			if allowed[m] {
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isURLEncoded(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(strings.ToLower(ct), "application/x-www-form-urlencoded")
}
