// internal/app/features/records/edit.go
package records

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/civichub/internal/app/features/errors"
	recordstore "github.com/dalemusser/civichub/internal/app/store/records"
	"github.com/dalemusser/civichub/internal/app/system/attachments"
	"github.com/dalemusser/civichub/internal/app/system/authz"
	"github.com/dalemusser/civichub/internal/app/system/navigation"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/dalemusser/civichub/internal/app/system/viewdata"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeEdit renders the edit form. Only the owner gets it; everyone else is
// sent back to the list, admins included.
func (h *Handler[T]) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, _ := authz.Current(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rec, ok := h.load(ctx, w, r, id, h.Table.Edit)
	if !ok {
		return
	}

	recID := rec.RecordID().Hex()
	data := formData{
		BaseVM:     viewdata.NewBaseVM(r, "Edit "+h.Kind.Label, h.Prefix),
		KindLabel:  h.Kind.Label,
		Prefix:     h.Prefix,
		Action:     h.Prefix + "/" + recID,
		IsEdit:     true,
		ID:         recID,
		Fields:     h.buildFields(rec.FieldValues()),
		Attachment: h.Kind.Attachment,
		Return:     navigation.SafeBackURL(r, navigation.ForPrefix(h.Prefix)),
	}
	if h.Kind.Attachment && !rec.RecordImage().IsZero() {
		data.ImageURL = h.Prefix + "/" + recID + "/image"
	}
	templates.Render(w, r, "records_form", data)
}

// HandleUpdate saves the editable fields of a record the requester owns. A
// new image replaces the stored one; without one the stored image is kept.
func (h *Handler[T]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := authz.Current(r)

	cleanup, err := attachments.ParseForm(r, h.maxBody())
	defer cleanup()
	if err != nil {
		h.ErrLog.JSONBadRequest(w, r, "parse form failed", err, "Invalid form data.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rec, ok := h.load(ctx, w, r, id, h.Table.Update)
	if !ok {
		return
	}

	values := h.formValues(r)
	if _, _, err := h.Kind.Normalize(values); err != nil {
		h.ErrLog.JSONBadRequest(w, r, "invalid "+h.Kind.Name, err, err.Error())
		return
	}

	var img *models.Attachment
	if h.Kind.Attachment {
		a, release, err := h.storeUpload(r)
		defer release()
		switch {
		case errors.Is(err, attachments.ErrNoFile):
			// keep the stored image
		case err != nil:
			h.uploadFailed(w, r, err)
			return
		default:
			img = &a
		}
	}

	updated, err := h.Store.Update(ctx, rec.RecordID(), values, img)
	if err != nil {
		if img != nil {
			h.discard(r, *img)
		}
		var ve *recordstore.ValidationError
		var ce *recordstore.ConflictError
		switch {
		case errors.As(err, &ve):
			h.ErrLog.JSONBadRequest(w, r, "invalid "+h.Kind.Name, err, ve.Msg)
		case errors.As(err, &ce):
			h.ErrLog.JSONBadRequest(w, r, h.Kind.Name+" conflict", err, ce.Error())
		case errors.Is(err, recordstore.ErrNotFound):
			uierrors.RenderNotFound(w, r, h.Kind.Label+" not found.", h.Prefix)
		default:
			h.ErrLog.LogServerError(w, r, "update "+h.Kind.Name+" failed", err, "Unable to save "+h.Kind.Name+".", h.Prefix)
		}
		return
	}

	if img != nil {
		h.discard(r, rec.RecordImage())
	}

	h.Audit.RecordUpdated(ctx, r, id.ID, h.Kind.Name, updated.RecordID(), img != nil)
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.ForPrefix(h.Prefix)), http.StatusSeeOther)
}
