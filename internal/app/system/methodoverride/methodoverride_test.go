package methodoverride

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func router() http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Post("/news/{id}", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("post")) })
	r.Put("/news/{id}", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("put")) })
	r.Delete("/news/{id}", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("delete")) })
	r.Get("/news/{id}", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("get")) })
	return r
}

func form(method string, v url.Values) *http.Request {
	req := httptest.NewRequest(method, "/news/abc", strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name string
		req  func() *http.Request
		want string
	}{
		{"form delete", func() *http.Request { return form(http.MethodPost, url.Values{"_method": {"DELETE"}}) }, "delete"},
		{"lowercase put", func() *http.Request { return form(http.MethodPost, url.Values{"_method": {"put"}}) }, "put"},
		{"plain post", func() *http.Request { return form(http.MethodPost, url.Values{"title": {"x"}}) }, "post"},
		{"get is never rewritten", func() *http.Request {
			return httptest.NewRequest(http.MethodGet, "/news/abc?_method=DELETE", nil)
		}, "get"},
		{"unknown method ignored", func() *http.Request { return form(http.MethodPost, url.Values{"_method": {"TRACE"}}) }, "post"},
		{"header", func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/news/abc", nil)
			req.Header.Set(HeaderName, "DELETE")
			return req
		}, "delete"},
	}

	h := router()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.req())
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}
