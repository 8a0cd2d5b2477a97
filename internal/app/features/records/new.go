// internal/app/features/records/new.go
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
	"go.uber.org/zap"
)

// ServeAdd renders the empty add form.
func (h *Handler[T]) ServeAdd(w http.ResponseWriter, r *http.Request) {
	data := formData{
		BaseVM:     viewdata.NewBaseVM(r, "Add "+h.Kind.Label, h.Prefix),
		KindLabel:  h.Kind.Label,
		Prefix:     h.Prefix,
		Action:     h.Prefix,
		Fields:     h.buildFields(nil),
		Attachment: h.Kind.Attachment,
		Return:     navigation.SafeBackURL(r, navigation.ForPrefix(h.Prefix)),
	}
	templates.Render(w, r, "records_form", data)
}

// HandleCreate stores a new record owned by the requester. Attachment kinds
// need an image in the "image" field. Failures answer with a JSON error.
func (h *Handler[T]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := authz.Current(r)
	if !ok {
		uierrors.WriteJSONError(w, http.StatusUnauthorized, "Please sign in.")
		return
	}

	cleanup, err := attachments.ParseForm(r, h.maxBody())
	defer cleanup()
	if err != nil {
		h.ErrLog.JSONBadRequest(w, r, "parse form failed", err, "Invalid form data.")
		return
	}

	values := h.formValues(r)
	// Reject bad fields before anything reaches the attachment store.
	if _, _, err := h.Kind.Normalize(values); err != nil {
		h.ErrLog.JSONBadRequest(w, r, "invalid "+h.Kind.Name, err, err.Error())
		return
	}

	var img *models.Attachment
	if h.Kind.Attachment {
		a, release, err := h.storeUpload(r)
		defer release()
		if err != nil {
			h.uploadFailed(w, r, err)
			return
		}
		img = &a
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rec, err := h.Store.Create(ctx, values, id.ID, img)
	if err != nil {
		if img != nil {
			h.discard(r, *img)
		}
		h.writeFailed(w, r, err)
		return
	}

	h.Audit.RecordCreated(ctx, r, id.ID, h.Kind.Name, rec.RecordID(), rec.RecordTitle())
	http.Redirect(w, r, h.Prefix, http.StatusSeeOther)
}

// storeUpload spools the "image" file and puts it in the attachment store.
// release is never nil and must be deferred.
func (h *Handler[T]) storeUpload(r *http.Request) (models.Attachment, func(), error) {
	up, release, err := h.Spooler.Spool(r, h.Kind.Name, "image")
	if err != nil {
		return models.Attachment{}, release, err
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	a, err := h.Attachments.Put(ctx, up.Payload, up.ContentType)
	if err != nil {
		return models.Attachment{}, release, err
	}
	return a, release, nil
}

// uploadFailed answers a failed spool or put: 400 for upload validation,
// 500 otherwise.
func (h *Handler[T]) uploadFailed(w http.ResponseWriter, r *http.Request, err error) {
	if msg, ok := attachments.UserMessage(err); ok {
		h.ErrLog.JSONBadRequest(w, r, "upload rejected", err, msg)
		return
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		h.ErrLog.JSONBadRequest(w, r, "upload rejected", err, "Image is too large")
		return
	}
	h.ErrLog.JSONServerError(w, r, "store attachment failed", err, "Unable to save image.")
}

// writeFailed answers a failed Create: 400 for validation and conflicts,
// 500 otherwise.
func (h *Handler[T]) writeFailed(w http.ResponseWriter, r *http.Request, err error) {
	var ve *recordstore.ValidationError
	var ce *recordstore.ConflictError
	switch {
	case errors.As(err, &ve):
		h.ErrLog.JSONBadRequest(w, r, "invalid "+h.Kind.Name, err, ve.Msg)
	case errors.As(err, &ce):
		h.ErrLog.JSONBadRequest(w, r, h.Kind.Name+" conflict", err, ce.Error())
	default:
		h.ErrLog.JSONServerError(w, r, "create "+h.Kind.Name+" failed", err, "Unable to save "+h.Kind.Name+".")
	}
}

// discard deletes an attachment whose record was never written (or was
// replaced). Failures are logged only.
func (h *Handler[T]) discard(r *http.Request, a models.Attachment) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), timeouts.Short())
	defer cancel()
	if err := h.Attachments.Delete(ctx, a); err != nil {
		h.Log.Warn("delete attachment failed",
			zap.String("kind", h.Kind.Name),
			zap.Error(err))
	}
}
