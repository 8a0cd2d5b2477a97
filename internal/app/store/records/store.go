// Package records is the generic repository for owned record kinds
// (workers, projects, investments, news). One Store is instantiated per kind
// with its model type and Kind descriptor.
package records

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dalemusser/civichub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store[T models.Record] struct {
	c    *mongo.Collection
	kind Kind
}

func New[T models.Record](db *mongo.Database, kind Kind) *Store[T] {
	return &Store[T]{c: db.Collection(kind.Collection), kind: kind}
}

// Kind returns the descriptor the store was built with.
func (s *Store[T]) Kind() Kind { return s.kind }

// ListOptions controls ordering and size of listings.
type ListOptions struct {
	Newest bool  // created_at descending; otherwise insertion order
	Limit  int64 // 0 means all
}

// Create validates values and inserts a record owned by ownerID. Attachment
// kinds require img.
func (s *Store[T]) Create(ctx context.Context, values map[string]string, ownerID primitive.ObjectID, img *models.Attachment) (T, error) {
	var zero T
	if s.kind.Attachment && (img == nil || img.IsZero()) {
		return zero, &ValidationError{Field: "image", Msg: "Please choose image"}
	}
	if ownerID.IsZero() {
		return zero, errors.New("record owner is required")
	}

	set, _, err := s.kind.Normalize(values)
	if err != nil {
		return zero, err
	}

	now := time.Now()
	id := primitive.NewObjectID()
	doc := bson.M{
		"_id":        id,
		"user_id":    ownerID,
		"created_at": now,
		"updated_at": now,
	}
	for k, v := range set {
		doc[k] = v
	}
	if s.kind.Attachment && img != nil {
		imgSet, _ := img.SetFields()
		for k, v := range imgSet {
			doc[k] = v
		}
	}

	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return zero, &ConflictError{Kind: s.kind.Label, Field: s.kind.uniqueField()}
		}
		return zero, fmt.Errorf("insert %s: %w", s.kind.Name, err)
	}
	return s.GetByID(ctx, id)
}

// GetByID loads one record. Returns ErrNotFound when absent.
func (s *Store[T]) GetByID(ctx context.Context, id primitive.ObjectID) (T, error) {
	var rec T
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return rec, ErrNotFound
		}
		return rec, fmt.Errorf("find %s: %w", s.kind.Name, err)
	}
	return rec, nil
}

// ListByOwner returns every record owned by ownerID.
func (s *Store[T]) ListByOwner(ctx context.Context, ownerID primitive.ObjectID, opts ListOptions) ([]T, error) {
	return s.find(ctx, bson.M{"user_id": ownerID}, opts)
}

// ListAll returns every record of the kind.
func (s *Store[T]) ListAll(ctx context.Context, opts ListOptions) ([]T, error) {
	return s.find(ctx, bson.M{}, opts)
}

// Search returns records whose search field contains query, ignoring case
// and diacritics, newest first.
func (s *Store[T]) Search(ctx context.Context, query string) ([]T, error) {
	filter := bson.M{
		s.kind.SearchField + "_ci": primitive.Regex{Pattern: regexp.QuoteMeta(text.Fold(query))},
	}
	return s.find(ctx, filter, ListOptions{Newest: true})
}

func (s *Store[T]) find(ctx context.Context, filter bson.M, opts ListOptions) ([]T, error) {
	sort := bson.D{{Key: "_id", Value: 1}}
	if opts.Newest {
		sort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
	fo := options.Find().SetSort(sort)
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}

	cur, err := s.c.Find(ctx, filter, fo)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind.Name, err)
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.kind.Name, err)
	}
	return out, nil
}

// Update replaces the editable fields of a record. img, when non-nil,
// replaces the attachment; otherwise the stored one is kept. Owner and
// created_at are never touched.
func (s *Store[T]) Update(ctx context.Context, id primitive.ObjectID, values map[string]string, img *models.Attachment) (T, error) {
	var zero T
	set, unset, err := s.kind.Normalize(values)
	if err != nil {
		return zero, err
	}
	set["updated_at"] = time.Now()

	if s.kind.Attachment && img != nil && !img.IsZero() {
		imgSet, imgUnset := img.SetFields()
		for k, v := range imgSet {
			set[k] = v
		}
		for k, v := range imgUnset {
			unset[k] = v
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var rec T
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, after).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return zero, &ConflictError{Kind: s.kind.Label, Field: s.kind.uniqueField()}
		}
		return zero, fmt.Errorf("update %s: %w", s.kind.Name, err)
	}
	return rec, nil
}

// Delete removes a record permanently. Returns ErrNotFound when absent.
func (s *Store[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.kind.Name, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
