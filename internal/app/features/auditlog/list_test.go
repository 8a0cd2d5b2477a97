package auditlog

import (
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/dalemusser/civichub/internal/app/features/errors"
	"github.com/dalemusser/civichub/internal/app/store/audit"
	"github.com/dalemusser/civichub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLoad_FiltersAndResolvesNames(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := zap.NewNop()
	h := NewHandler(db, uierrors.NewErrorLogger(logger), logger)

	admin := fx.CreateAdmin(ctx, "Ada Admin", "ada@example.com")
	recID := primitive.NewObjectID()
	ts := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, h.Events.Log(ctx, audit.Event{
		Timestamp: ts, Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess,
		UserID: &admin.ID, Success: true,
	}))
	require.NoError(t, h.Events.Log(ctx, audit.Event{
		Timestamp: ts.Add(time.Hour), Category: audit.CategoryAdmin, EventType: audit.EventRecordCreated,
		ActorID: &admin.ID, RecordKind: "news", RecordID: &recID, Success: true,
	}))

	data, err := h.load(ctx, httptest.NewRequest("GET", "/audit?category=admin", nil))
	require.NoError(t, err)
	require.Len(t, data.Items, 1)
	item := data.Items[0]
	assert.Equal(t, audit.EventRecordCreated, item.EventType)
	assert.Equal(t, "Ada Admin", item.ActorName)
	assert.Equal(t, "/news/"+recID.Hex(), item.RecordHref)
	assert.Equal(t, int64(1), data.Total)
	assert.Equal(t, 1, data.Start)
	assert.Equal(t, 1, data.End)

	// Date window excludes everything after March 9.
	data, err = h.load(ctx, httptest.NewRequest("GET", "/audit?end_date=2025-03-09", nil))
	require.NoError(t, err)
	assert.Empty(t, data.Items)
	assert.Equal(t, 1, data.TotalPages)

	data, err = h.load(ctx, httptest.NewRequest("GET", "/audit?start_date=2025-03-10&end_date=2025-03-10", nil))
	require.NoError(t, err)
	assert.Len(t, data.Items, 2)
	// Newest first.
	assert.Equal(t, audit.EventRecordCreated, data.Items[0].EventType)
	assert.Equal(t, "Ada Admin", data.Items[1].TargetName)
}

func TestLoad_UnknownUserFallsBackToHex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := zap.NewNop()
	h := NewHandler(db, uierrors.NewErrorLogger(logger), logger)

	ghost := primitive.NewObjectID()
	require.NoError(t, h.Events.Log(ctx, audit.Event{
		Category: audit.CategoryAuth, EventType: audit.EventLogout, UserID: &ghost, Success: true,
	}))

	data, err := h.load(ctx, httptest.NewRequest("GET", "/audit", nil))
	require.NoError(t, err)
	require.Len(t, data.Items, 1)
	assert.Equal(t, ghost.Hex(), data.Items[0].TargetName)
}

func TestEventTypesForCategory(t *testing.T) {
	assert.Contains(t, eventTypesForCategory(audit.CategoryAuth), audit.EventLogout)
	assert.NotContains(t, eventTypesForCategory(audit.CategoryAuth), audit.EventRecordDeleted)
	assert.Contains(t, eventTypesForCategory(audit.CategoryAdmin), audit.EventRoleChanged)
	assert.Len(t, eventTypesForCategory(""),
		len(eventTypesForCategory(audit.CategoryAuth))+len(eventTypesForCategory(audit.CategoryAdmin)))
	assert.Nil(t, eventTypesForCategory("security"))
}

func TestRecordHref(t *testing.T) {
	assert.Equal(t, "/worker/abc", recordHref("workers", "abc"))
	assert.Equal(t, "/investment/abc", recordHref("investments", "abc"))
	assert.Empty(t, recordHref("groups", "abc"))
}
