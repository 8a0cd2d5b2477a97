// internal/app/features/records/view.go
package records

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/civichub/internal/app/features/errors"
	"github.com/dalemusser/civichub/internal/app/policy/recordpolicy"
	recordstore "github.com/dalemusser/civichub/internal/app/store/records"
	"github.com/dalemusser/civichub/internal/app/system/attachments"
	"github.com/dalemusser/civichub/internal/app/system/authz"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/dalemusser/civichub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// load fetches the record named by the {id} path param and applies rule's
// owner check. It writes the response and returns false when the handler
// should stop.
func (h *Handler[T]) load(ctx context.Context, w http.ResponseWriter, r *http.Request, id authz.Identity, rule recordpolicy.Rule) (T, bool) {
	var zero T

	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, h.Kind.Label+" not found.", h.Prefix)
		return zero, false
	}

	rec, err := h.Store.GetByID(ctx, oid)
	if errors.Is(err, recordstore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, h.Kind.Label+" not found.", h.Prefix)
		return zero, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load "+h.Kind.Name+" failed", err, "A database error occurred.", h.Prefix)
		return zero, false
	}

	if !recordpolicy.CanAct(id, rule, rec.RecordOwner()) {
		h.deny(w, r, rule)
		return zero, false
	}
	return rec, true
}

// ServeShow renders one record.
func (h *Handler[T]) ServeShow(w http.ResponseWriter, r *http.Request) {
	id, _ := authz.Current(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rec, ok := h.load(ctx, w, r, id, h.Table.Show)
	if !ok {
		return
	}

	data := showData{
		BaseVM:    viewdata.NewBaseVM(r, rec.RecordTitle(), h.Prefix),
		KindLabel: h.Kind.Label,
		Prefix:    h.Prefix,
		Record:    h.buildRow(id, rec),
	}
	templates.Render(w, r, "records_show", data)
}

// ServeImage streams the record's attachment. Access follows the show rule.
func (h *Handler[T]) ServeImage(w http.ResponseWriter, r *http.Request) {
	id, _ := authz.Current(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	rec, ok := h.load(ctx, w, r, id, h.Table.Show)
	if !ok {
		return
	}

	img := rec.RecordImage()
	if img.IsZero() {
		uierrors.RenderNotFound(w, r, "Image not found.", h.Prefix)
		return
	}

	payload, err := h.Attachments.Get(ctx, img)
	if errors.Is(err, attachments.ErrMissing) {
		h.Log.Warn("attachment missing",
			zap.String("kind", h.Kind.Name),
			zap.String("record_id", rec.RecordID().Hex()))
		uierrors.RenderNotFound(w, r, "Image not found.", h.Prefix)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "read attachment failed", err, "Unable to load image.", h.Prefix)
		return
	}

	// Anything that is not a known raster type is sent as a download.
	ct := img.ContentType
	if !attachments.IsRaster(ct) {
		ct = "application/octet-stream"
		w.Header().Set("Content-Disposition", "attachment")
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "sandbox; default-src 'none'")
	_, _ = w.Write(payload)
}
