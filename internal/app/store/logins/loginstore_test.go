package loginstore_test

import (
	"net/http/httptest"
	"testing"
	"time"

	loginstore "github.com/dalemusser/civichub/internal/app/store/logins"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/civichub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateFrom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	req := httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")

	if err := store.CreateFrom(ctx, req, userID, models.AuthPassword); err != nil {
		t.Fatalf("CreateFrom failed: %v", err)
	}

	recs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].UserID != userID {
		t.Errorf("UserID: got %s, want %s", recs[0].UserID.Hex(), userID.Hex())
	}
	if recs[0].IP != "203.0.113.7" {
		t.Errorf("IP: got %q", recs[0].IP)
	}
	if recs[0].CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Recent_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := loginstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		if err := store.Create(ctx, models.LoginRecord{
			UserID:    primitive.NewObjectID(),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Provider:  models.AuthGoogle,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	recs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if !recs[0].CreatedAt.After(recs[1].CreatedAt) {
		t.Error("expected newest first")
	}
}
