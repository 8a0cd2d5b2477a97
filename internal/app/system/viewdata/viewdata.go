// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"sync/atomic"

	"github.com/dalemusser/civichub/internal/app/system/auth"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string
	UserImage  string
	IsAdmin    bool
	IsWorker   bool

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string
}

var siteName atomic.Value

// SetSiteName overrides the site name shown in page headers. Call once at startup.
func SetSiteName(name string) {
	if name != "" {
		siteName.Store(name)
	}
}

// SiteName returns the configured site name or the default.
func SiteName() string {
	if v, ok := siteName.Load().(string); ok {
		return v
	}
	return models.DefaultSiteName
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName(),
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Role = u.Role
		vm.UserName = u.Name
		vm.UserImage = u.ImageURL
		vm.IsAdmin = u.Role == models.RoleAdmin
		vm.IsWorker = u.Role == models.RoleWorker
	}
	return vm
}
