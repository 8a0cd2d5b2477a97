package testutil

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/dalemusser/civichub/internal/app/system/authutil"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// TestImage is a one-pixel PNG used wherever a record needs an attachment.
var TestImage = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0xf8, 0xcf, 0xc0, 0xf0,
	0x1f, 0x00, 0x05, 0x00, 0x01, 0xff, 0x89, 0x99, 0x3d, 0x1d, 0x00, 0x00,
	0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// testAttachment is TestImage stored inline.
func testAttachment() models.Attachment {
	return models.Attachment{
		Data:        base64.StdEncoding.EncodeToString(TestImage),
		ContentType: "image/png",
		Size:        int64(len(TestImage)),
	}
}

// CreateUser creates an active password user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()
	return f.insertUser(ctx, fullName, email, role, models.StatusActive)
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin)
}

// CreateWorkerUser creates a test user with the worker role.
func (f *Fixtures) CreateWorkerUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleWorker)
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.insertUser(ctx, fullName, email, models.RoleUser, models.StatusDisabled)
}

func (f *Fixtures) insertUser(ctx context.Context, fullName, email, role, status string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		LoginID:    email,
		LoginIDCI:  text.Fold(email),
		AuthMethod: models.AuthPassword,
		Role:       role,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateWorker inserts a worker record owned by ownerID.
func (f *Fixtures) CreateWorker(ctx context.Context, ownerID primitive.ObjectID, name, position string) models.Worker {
	f.t.Helper()

	now := time.Now().UTC()
	w := models.Worker{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Position:  position,
		Image:     testAttachment(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("workers").InsertOne(ctx, w); err != nil {
		f.t.Fatalf("failed to create test worker: %v", err)
	}
	return w
}

// CreateProject inserts a project record owned by ownerID.
func (f *Fixtures) CreateProject(ctx context.Context, ownerID primitive.ObjectID, title, category string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Body:      "<p>" + title + "</p>",
		Category:  category,
		Image:     testAttachment(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateInvestment inserts an investment record owned by ownerID.
func (f *Fixtures) CreateInvestment(ctx context.Context, ownerID primitive.ObjectID, title string) models.Investment {
	f.t.Helper()

	now := time.Now().UTC()
	inv := models.Investment{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Image:     testAttachment(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("investments").InsertOne(ctx, inv); err != nil {
		f.t.Fatalf("failed to create test investment: %v", err)
	}
	return inv
}

// CreateNews inserts a news item owned by ownerID.
func (f *Fixtures) CreateNews(ctx context.Context, ownerID primitive.ObjectID, title string) models.News {
	f.t.Helper()

	now := time.Now().UTC()
	n := models.News{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Body:      "<p>" + title + "</p>",
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("news").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test news: %v", err)
	}
	return n
}

// SetPassword gives a fixture user a bcrypt password.
func (f *Fixtures) SetPassword(ctx context.Context, userID primitive.ObjectID, password string) {
	f.t.Helper()

	hash, err := authutil.HashPassword(password)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	if _, err := f.db.Collection("users").UpdateByID(ctx, userID, bson.M{"$set": bson.M{"password_hash": hash}}); err != nil {
		f.t.Fatalf("failed to set test password: %v", err)
	}
}
