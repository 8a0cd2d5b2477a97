package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/civichub/internal/app/system/normalize"
	"github.com/dalemusser/civichub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when another user already signs in with this email.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrNotFound is returned by updates that match no user.
	ErrNotFound   = errors.New("user not found")
	errBadRole    = errors.New(`role must be "admin"|"worker"|"user"`)
	errBadStatus  = errors.New(`status must be "active"|"disabled"`)
	errBadMethod  = errors.New(`auth_method must be "password"|"google"`)
	errNoLoginID  = errors.New("email or login id is required")
	errNoPassword = errors.New("password users need a password hash")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDs loads every user whose ID is in ids; unknown IDs are skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByLoginID matches on the folded login id used by the password form.
func (s *Store) GetByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"login_id_ci": text.Fold(loginID)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByAuthReturnID finds a Google user by subject id.
func (s *Store) GetByAuthReturnID(ctx context.Context, subject string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"auth_return_id": subject}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
// The login id defaults to the email address.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.LoginID == "" {
		u.LoginID = u.Email
	}
	u.LoginIDCI = text.Fold(u.LoginID)
	u.Role = normalize.Role(u.Role)
	u.AuthMethod = normalize.AuthMethod(u.AuthMethod)
	if u.AuthMethod == "" {
		u.AuthMethod = models.AuthPassword
	}
	u.Status = normalize.Status(u.Status)
	if u.Status == "" {
		u.Status = models.StatusActive
	}
	if u.FullName == "" {
		u.FullName = u.LoginID
		u.FullNameCI = text.Fold(u.FullName)
	}

	if u.LoginID == "" {
		return models.User{}, errNoLoginID
	}
	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if !models.IsValidStatus(u.Status) {
		return models.User{}, errBadStatus
	}
	if !models.IsValidAuthMethod(u.AuthMethod) {
		return models.User{}, errBadMethod
	}
	if u.AuthMethod == models.AuthPassword && u.PasswordHash == "" {
		return models.User{}, errNoPassword
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// SetRole changes a user's role.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	role = normalize.Role(role)
	if !models.IsValidRole(role) {
		return errBadRole
	}
	return s.update(ctx, id, bson.M{"role": role})
}

// SetStatus enables or disables sign-in.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	status = normalize.Status(status)
	if !models.IsValidStatus(status) {
		return errBadStatus
	}
	return s.update(ctx, id, bson.M{"status": status})
}

// SetPassword stores a new bcrypt hash.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return s.update(ctx, id, bson.M{"password_hash": hash})
}

// GoogleProfile is what the OAuth callback knows about the signed-in account.
type GoogleProfile struct {
	Subject   string
	Email     string
	FullName  string
	FirstName string
	LastName  string
	Picture   string
}

// UpsertGoogle returns the user for a Google account, linking by subject and
// then by email. When neither matches, a user with defaultRole is created and
// created reports true.
func (s *Store) UpsertGoogle(ctx context.Context, p GoogleProfile, defaultRole string) (u *models.User, created bool, err error) {
	if p.Subject == "" {
		return nil, false, errors.New("google profile has no subject")
	}

	set := bson.M{"updated_at": time.Now()}
	if p.Picture != "" {
		set["image_url"] = p.Picture
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var got models.User
	err = s.c.FindOneAndUpdate(ctx, bson.M{"auth_return_id": p.Subject}, bson.M{"$set": set}, after).Decode(&got)
	if err == nil {
		return &got, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("find by google subject: %w", err)
	}

	if email := normalize.Email(p.Email); email != "" {
		set["auth_return_id"] = p.Subject
		err = s.c.FindOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$set": set}, after).Decode(&got)
		if err == nil {
			return &got, false, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, fmt.Errorf("link google by email: %w", err)
		}
	}

	nu, err := s.Create(ctx, models.User{
		FullName:     p.FullName,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		AuthMethod:   models.AuthGoogle,
		AuthReturnID: p.Subject,
		Role:         defaultRole,
		ImageURL:     p.Picture,
	})
	if err != nil {
		return nil, false, err
	}
	return &nu, true, nil
}

func (s *Store) update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
