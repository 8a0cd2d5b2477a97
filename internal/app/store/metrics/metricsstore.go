package metricsstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown on the admin dashboard.
type Counts struct {
	Workers     int64
	Projects    int64
	Investments int64
	News        int64
	Users       int64
}

// FetchDashboardCounts returns the high-level counts used by dashboards.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts
	count := func(coll string, filter bson.M, dst *int64) {
		if n, err := db.Collection(coll).CountDocuments(ctx, filter); err == nil {
			*dst = n
		}
	}

	count("workers", bson.M{}, &out.Workers)
	count("projects", bson.M{}, &out.Projects)
	count("investments", bson.M{}, &out.Investments)
	count("news", bson.M{}, &out.News)
	count("users", bson.M{}, &out.Users)
	return out
}

// OwnerCounts is the per-user summary shown on the worker dashboard.
type OwnerCounts struct {
	Projects int64
	News     int64
}

// FetchOwnerCounts counts the records owned by userID. Tolerant like
// FetchDashboardCounts.
func FetchOwnerCounts(ctx context.Context, db *mongo.Database, userID any) OwnerCounts {
	var out OwnerCounts
	if n, err := db.Collection("projects").CountDocuments(ctx, bson.M{"user_id": userID}); err == nil {
		out.Projects = n
	}
	if n, err := db.Collection("news").CountDocuments(ctx, bson.M{"user_id": userID}); err == nil {
		out.News = n
	}
	return out
}
