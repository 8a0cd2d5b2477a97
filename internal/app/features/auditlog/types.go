// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/dalemusser/civichub/internal/app/store/audit"
	"github.com/dalemusser/civichub/internal/app/system/paging"
	"github.com/dalemusser/civichub/internal/app/system/viewdata"
)

// listItem is one audit event row.
type listItem struct {
	ID         string
	When       string
	Category   string
	EventType  string
	ActorName  string // resolved from ActorID
	TargetName string // resolved from UserID
	RecordKind string
	RecordHref string
	IP         string
	Success    bool
	Reason     string
	Details    map[string]string
}

type listData struct {
	viewdata.BaseVM

	Items []listItem

	// Filters
	Category   string
	EventType  string
	RecordKind string
	StartDate  string
	EndDate    string

	// Filter options
	Categories  []option
	EventTypes  []string
	RecordKinds []option

	paging.Pager
}

type option struct {
	Value string
	Label string
}

func allCategories() []option {
	return []option{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
	}
}

// recordKinds maps the stored record_kind to its label and URL prefix.
var recordKinds = []struct {
	Kind, Label, Prefix string
}{
	{"workers", "Workers", "/worker"},
	{"projects", "Projects", "/project"},
	{"investments", "Investments", "/investment"},
	{"news", "News", "/news"},
}

func allRecordKinds() []option {
	out := make([]option, 0, len(recordKinds))
	for _, k := range recordKinds {
		out = append(out, option{Value: k.Kind, Label: k.Label})
	}
	return out
}

// recordHref links a record event to the record's show page; empty when the
// kind is unknown.
func recordHref(kind, id string) string {
	for _, k := range recordKinds {
		if k.Kind == kind {
			return k.Prefix + "/" + id
		}
	}
	return ""
}

// eventTypesForCategory returns the event types offered in the filter.
// An empty category returns all of them; an unknown one returns nil.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLoginFailedRateLimit,
		audit.EventLogout,
		audit.EventUserProvisioned,
	}
	adminEvents := []string{
		audit.EventRecordCreated,
		audit.EventRecordUpdated,
		audit.EventRecordDeleted,
		audit.EventUserCreated,
		audit.EventRoleChanged,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		return append(append([]string{}, authEvents...), adminEvents...)
	default:
		return nil
	}
}
