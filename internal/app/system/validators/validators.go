// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/civichub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("workers", workersSchema())
	ensure("projects", projectsSchema())
	ensure("investments", investmentsSchema())
	ensure("news", newsSchema())

	// These don't need validators; we still ensure the collections exist.
	ensure("audit_events", nil)
	ensure("login_records", nil)
	ensure("oauth_states", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func enum(values []string) bson.M {
	a := make(bson.A, 0, len(values))
	for _, v := range values {
		a = append(a, v)
	}
	return bson.M{"enum": a}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "login_id_ci", "role", "status", "auth_method"},
			"properties": bson.M{
				"full_name":      nonBlank,
				"full_name_ci":   bson.M{"bsonType": "string"},
				"login_id":       bson.M{"bsonType": "string"},
				"login_id_ci":    nonBlank,
				"auth_return_id": bson.M{"bsonType": bson.A{"string", "null"}},
				"email":          bson.M{"bsonType": bson.A{"string", "null"}},
				"role":           enum(models.Roles),
				"status":         bson.M{"enum": bson.A{"active", "disabled"}},
				"auth_method":    bson.M{"enum": bson.A{models.AuthPassword, models.AuthGoogle}},
			},
		},
	}
}

// ownedRecord is the part of the schema every owned record shares.
func ownedRecord(required []string, props bson.M) bson.M {
	req := bson.A{"user_id", "created_at"}
	for _, r := range required {
		req = append(req, r)
	}
	props["user_id"] = bson.M{"bsonType": "objectId"}
	props["created_at"] = bson.M{"bsonType": "date"}
	props["updated_at"] = bson.M{"bsonType": "date"}
	props["image_data"] = bson.M{"bsonType": "string"}
	props["image_ref"] = bson.M{"bsonType": bson.A{"objectId", "null"}}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   req,
			"properties": props,
		},
	}
}

func workersSchema() bson.M {
	return ownedRecord([]string{"name", "position"}, bson.M{
		"name":     nonBlank,
		"email":    bson.M{"bsonType": "string"},
		"position": enum(models.WorkerPositions),
	})
}

func projectsSchema() bson.M {
	return ownedRecord([]string{"title", "body", "category"}, bson.M{
		"title":    nonBlank,
		"body":     nonBlank,
		"category": enum(models.ProjectCategories),
	})
}

func investmentsSchema() bson.M {
	return ownedRecord([]string{"title"}, bson.M{
		"title": nonBlank,
	})
}

func newsSchema() bson.M {
	return ownedRecord([]string{"title", "body"}, bson.M{
		"title": nonBlank,
		"body":  nonBlank,
	})
}
