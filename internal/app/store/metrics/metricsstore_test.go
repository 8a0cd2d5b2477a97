package metricsstore_test

import (
	"testing"

	metricsstore "github.com/dalemusser/civichub/internal/app/store/metrics"
	"github.com/dalemusser/civichub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFetchDashboardCounts_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got := metricsstore.FetchDashboardCounts(ctx, db)
	if got != (metricsstore.Counts{}) {
		t.Errorf("expected zero counts, got %+v", got)
	}
}

func TestFetchDashboardCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	seed := map[string]int{"workers": 2, "projects": 3, "investments": 1, "news": 4}
	for coll, n := range seed {
		for i := 0; i < n; i++ {
			if _, err := db.Collection(coll).InsertOne(ctx, bson.M{"user_id": owner}); err != nil {
				t.Fatalf("seed %s: %v", coll, err)
			}
		}
	}

	got := metricsstore.FetchDashboardCounts(ctx, db)
	if got.Workers != 2 || got.Projects != 3 || got.Investments != 1 || got.News != 4 {
		t.Errorf("unexpected counts %+v", got)
	}

	mine := metricsstore.FetchOwnerCounts(ctx, db, owner)
	if mine.Projects != 3 || mine.News != 4 {
		t.Errorf("unexpected owner counts %+v", mine)
	}
	other := metricsstore.FetchOwnerCounts(ctx, db, primitive.NewObjectID())
	if other != (metricsstore.OwnerCounts{}) {
		t.Errorf("expected zero owner counts, got %+v", other)
	}
}
