// internal/app/features/records/list.go
package records

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/civichub/internal/app/features/errors"
	recordstore "github.com/dalemusser/civichub/internal/app/store/records"
	"github.com/dalemusser/civichub/internal/app/system/authz"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/dalemusser/civichub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (h *Handler[T]) listOptions() recordstore.ListOptions {
	return recordstore.ListOptions{Newest: h.Kind.NewestFirst}
}

func (h *Handler[T]) indexOptions() recordstore.ListOptions {
	return recordstore.ListOptions{Newest: h.Kind.NewestFirst || h.Kind.IndexNewest}
}

// ServeIndex lists every record of the kind. No pagination.
func (h *Handler[T]) ServeIndex(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.indexData(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list "+h.Kind.Name+" failed", err, "A database error occurred.", "/")
		return
	}
	templates.Render(w, r, "records_index", data)
}

func (h *Handler[T]) indexData(ctx context.Context, r *http.Request) (listData, error) {
	id, _ := authz.Current(r)
	recs, err := h.Store.ListAll(ctx, h.indexOptions())
	if err != nil {
		return listData{}, err
	}
	return h.listVM(viewdata.NewBaseVM(r, h.Kind.Plural, "/"), id, h.Kind.Plural, recs), nil
}

// ServeByOwner lists the records owned by the user in the path.
func (h *Handler[T]) ServeByOwner(w http.ResponseWriter, r *http.Request) {
	ownerID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "User not found.", h.Prefix)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.ownerData(ctx, r, ownerID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list "+h.Kind.Name+" by owner failed", err, "A database error occurred.", h.Prefix)
		return
	}
	templates.Render(w, r, "records_index", data)
}

func (h *Handler[T]) ownerData(ctx context.Context, r *http.Request, ownerID primitive.ObjectID) (listData, error) {
	id, _ := authz.Current(r)
	recs, err := h.Store.ListByOwner(ctx, ownerID, h.listOptions())
	if err != nil {
		return listData{}, err
	}
	return h.listVM(viewdata.NewBaseVM(r, h.Kind.Plural, h.Prefix), id, h.Kind.Plural+" by user", recs), nil
}

// ServeMine lists the requester's own records.
func (h *Handler[T]) ServeMine(w http.ResponseWriter, r *http.Request) {
	id, ok := authz.Current(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.mineData(ctx, r, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list own "+h.Kind.Name+" failed", err, "A database error occurred.", "/")
		return
	}
	templates.Render(w, r, "records_index", data)
}

func (h *Handler[T]) mineData(ctx context.Context, r *http.Request, id authz.Identity) (listData, error) {
	recs, err := h.Store.ListByOwner(ctx, id.ID, h.listOptions())
	if err != nil {
		return listData{}, err
	}
	return h.listVM(viewdata.NewBaseVM(r, "My "+h.Kind.Plural, "/"), id, "My "+h.Kind.Plural, recs), nil
}

// ServeSearch finds records whose title (or name) contains the query. The
// query comes from ?query= when present, otherwise from the path
// (/search/{query}). Any failure shows the not-found page.
func (h *Handler[T]) ServeSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.searchData(ctx, r)
	if err != nil {
		h.Log.Warn("search failed",
			zap.String("kind", h.Kind.Name),
			zap.String("query", data.Query),
			zap.Error(err))
		uierrors.RenderNotFound(w, r, "No "+strings.ToLower(h.Kind.Plural)+" found.", h.Prefix)
		return
	}
	templates.Render(w, r, "records_index", data)
}

// searchTerm picks the query parameter over the path segment.
func searchTerm(r *http.Request) string {
	if q := query.Get(r, "query"); q != "" {
		return q
	}
	return strings.TrimSpace(chi.URLParam(r, "query"))
}

func (h *Handler[T]) searchData(ctx context.Context, r *http.Request) (listData, error) {
	id, _ := authz.Current(r)
	q := searchTerm(r)
	recs, err := h.Store.Search(ctx, q)
	if err != nil {
		return listData{Query: q}, err
	}
	data := h.listVM(viewdata.NewBaseVM(r, "Search "+h.Kind.Plural, h.Prefix), id, "Search results", recs)
	data.Query = q
	return data, nil
}
