// internal/app/features/records/handler.go
package records

import (
	"net/http"

	uierrors "github.com/dalemusser/civichub/internal/app/features/errors"
	"github.com/dalemusser/civichub/internal/app/policy/recordpolicy"
	recordstore "github.com/dalemusser/civichub/internal/app/store/records"
	"github.com/dalemusser/civichub/internal/app/system/attachments"
	"github.com/dalemusser/civichub/internal/app/system/auditlog"
	"github.com/dalemusser/civichub/internal/app/system/limits"
	"github.com/dalemusser/civichub/internal/domain/models"
	"go.uber.org/zap"
)

// Deps are the collaborators shared by every record kind's handler.
type Deps struct {
	Attachments attachments.Store
	Spooler     attachments.Spooler
	Audit       *auditlog.Logger
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger
}

// Handler serves one record kind (workers, projects, investments or news).
// The kind descriptor drives forms and validation; the policy table drives
// access and owner checks route by route.
//
// It is constructed once per kind at startup in bootstrap.
type Handler[T models.Record] struct {
	Store  *recordstore.Store[T]
	Kind   recordstore.Kind
	Table  recordpolicy.Table
	Prefix string // mount point, e.g. "/worker"

	Attachments attachments.Store
	Spooler     attachments.Spooler
	Audit       *auditlog.Logger
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger
}

// NewHandler constructs a Handler for the kind of store mounted at prefix.
func NewHandler[T models.Record](store *recordstore.Store[T], table recordpolicy.Table, prefix string, deps Deps) *Handler[T] {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.ErrLog == nil {
		deps.ErrLog = uierrors.NewErrorLogger(deps.Log)
	}
	return &Handler[T]{
		Store:       store,
		Kind:        store.Kind(),
		Table:       table,
		Prefix:      prefix,
		Attachments: deps.Attachments,
		Spooler:     deps.Spooler,
		Audit:       deps.Audit,
		ErrLog:      deps.ErrLog,
		Log:         deps.Log,
	}
}

// deny answers a failed owner check the way rule says.
func (h *Handler[T]) deny(w http.ResponseWriter, r *http.Request, rule recordpolicy.Rule) {
	if rule.OnDenied == recordpolicy.NotFound {
		uierrors.RenderNotFound(w, r, h.Kind.Label+" not found.", h.Prefix)
		return
	}
	h.redirectList(w, r)
}

// redirectList sends the browser back to the kind's list.
func (h *Handler[T]) redirectList(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", h.Prefix)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, h.Prefix, http.StatusSeeOther)
}

// maxBody is the memory budget for parsing a record form. The body itself is
// capped by limits.MaxBody ahead of CSRF.
func (h *Handler[T]) maxBody() int64 {
	n := h.Spooler.MaxBytes
	if n <= 0 {
		n = attachments.DefaultMaxBytes
	}
	return n + limits.FormFieldsAllowance
}

// formValues reads the kind's own fields from the parsed form. Anything else
// submitted (user_id, created_at, ...) is never looked at.
func (h *Handler[T]) formValues(r *http.Request) map[string]string {
	values := make(map[string]string, len(h.Kind.Fields))
	for _, f := range h.Kind.Fields {
		values[f.Name] = r.FormValue(f.Name)
	}
	return values
}
