// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/civichub/internal/app/store/audit"
	"github.com/dalemusser/civichub/internal/app/system/paging"
	"github.com/dalemusser/civichub/internal/app/system/timeouts"
	"github.com/dalemusser/civichub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// ServeList handles GET /audit with category, event type, record kind
// and date range filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	data, err := h.load(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit log query failed", err, "A database error occurred.", "/admin")
		return
	}
	templates.Render(w, r, "audit_list", data)
}

// load runs the filtered query and builds the view model.
func (h *Handler) load(ctx context.Context, r *http.Request) (listData, error) {
	data := listData{
		BaseVM:      viewdata.NewBaseVM(r, "Audit Log", "/admin"),
		Category:    query.Get(r, "category"),
		EventType:   query.Get(r, "event_type"),
		RecordKind:  query.Get(r, "record_kind"),
		StartDate:   query.Get(r, "start_date"),
		EndDate:     query.Get(r, "end_date"),
		Categories:  allCategories(),
		RecordKinds: allRecordKinds(),
	}
	data.EventTypes = eventTypesForCategory(data.Category)

	page := paging.ParsePage(r)
	filter := audit.QueryFilter{
		Category:   data.Category,
		EventType:  data.EventType,
		RecordKind: data.RecordKind,
		Limit:      paging.PageSize,
		Offset:     paging.Skip(page),
	}
	if t, err := time.Parse(dateLayout, data.StartDate); err == nil {
		filter.StartTime = &t
	}
	if t, err := time.Parse(dateLayout, data.EndDate); err == nil {
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &end
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		return data, err
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		return data, err
	}

	names := h.userNames(ctx, events)
	data.Items = make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			ID:         e.ID.Hex(),
			When:       e.Timestamp.UTC().Format("Jan 2, 2006 15:04 UTC"),
			Category:   e.Category,
			EventType:  e.EventType,
			RecordKind: e.RecordKind,
			IP:         e.IP,
			Success:    e.Success,
			Reason:     e.FailureReason,
			Details:    e.Details,
		}
		if e.ActorID != nil {
			item.ActorName = nameOr(names, *e.ActorID)
		}
		if e.UserID != nil {
			item.TargetName = nameOr(names, *e.UserID)
		}
		if e.RecordID != nil && e.EventType != audit.EventRecordDeleted {
			item.RecordHref = recordHref(e.RecordKind, e.RecordID.Hex())
		}
		data.Items = append(data.Items, item)
	}

	data.Pager = paging.New(page, total, len(data.Items))
	return data, nil
}

// userNames batch-resolves actor and target IDs. Lookup failures only cost
// the display names.
func (h *Handler) userNames(ctx context.Context, events []audit.Event) map[primitive.ObjectID]string {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	add := func(id *primitive.ObjectID) {
		if id == nil {
			return
		}
		if _, ok := seen[*id]; !ok {
			seen[*id] = struct{}{}
			ids = append(ids, *id)
		}
	}
	for _, e := range events {
		add(e.ActorID)
		add(e.UserID)
	}

	names := make(map[primitive.ObjectID]string, len(ids))
	users, err := h.Users.GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("audit log user lookup failed", zap.Error(err))
		return names
	}
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names
}

func nameOr(names map[primitive.ObjectID]string, id primitive.ObjectID) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id.Hex()
}
