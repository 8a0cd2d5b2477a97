// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/worker", "/project").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject (e.g., "/edit", "/add").
	// These prevent redirect loops back to form pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks both the query parameter and form value for "return", validates
// the URL is safe (not an open redirect), optionally validates the prefix,
// and excludes specified subpaths to prevent redirect loops.
//
// Example usage:
//
//	url := navigation.SafeBackURL(r, navigation.ForPrefix("/worker"))
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}

	if ret != "" && allowed(ret, opts) {
		return ret
	}
	return opts.Fallback
}

func allowed(ret string, opts BackURLOptions) bool {
	if opts.AllowedPrefix != "" {
		if ret != opts.AllowedPrefix && !strings.HasPrefix(ret, opts.AllowedPrefix+"/") && !strings.HasPrefix(ret, opts.AllowedPrefix+"?") {
			return false
		}
	}
	for _, excluded := range opts.ExcludedSubpaths {
		if strings.Contains(ret, excluded) {
			return false
		}
	}
	return true
}

// ForPrefix returns the options used by a record kind mounted at prefix:
// returns stay inside the kind and never land on a form.
func ForPrefix(prefix string) BackURLOptions {
	return BackURLOptions{
		AllowedPrefix:    prefix,
		ExcludedSubpaths: []string{"/edit", "/add"},
		Fallback:         prefix,
	}
}
