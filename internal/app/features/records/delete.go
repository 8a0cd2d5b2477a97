// internal/app/features/records/delete.go
package records

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/civichub/internal/app/features/errors"
	"github.com/dalemusser/civichub/internal/app/policy/recordpolicy"
	recordstore "github.com/dalemusser/civichub/internal/app/store/records"
	"github.com/dalemusser/civichub/internal/app/system/authz"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDelete removes a record and its image. A missing record shows the
// not-found page; every other outcome, including a refused owner check,
// ends on the list.
func (h *Handler[T]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := authz.Current(r)
	rule := h.Table.Delete

	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, h.Kind.Label+" not found.", h.Prefix)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rec, err := h.Store.GetByID(ctx, oid)
	if errors.Is(err, recordstore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, h.Kind.Label+" not found.", h.Prefix)
		return
	}
	if err != nil {
		h.Log.Error("load for delete failed", zap.String("kind", h.Kind.Name), zap.Error(err))
		h.redirectList(w, r)
		return
	}

	if !recordpolicy.CanAct(id, rule, rec.RecordOwner()) {
		h.redirectList(w, r)
		return
	}

	if err := h.Store.Delete(ctx, oid); err != nil {
		if !errors.Is(err, recordstore.ErrNotFound) {
			h.Log.Error("delete failed", zap.String("kind", h.Kind.Name), zap.Error(err))
		}
		h.redirectList(w, r)
		return
	}
	if img := rec.RecordImage(); !img.IsZero() {
		h.discard(r, img)
	}

	h.Audit.RecordDeleted(ctx, r, id.ID, h.Kind.Name, oid)
	h.redirectList(w, r)
}
