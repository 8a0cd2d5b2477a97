package attachments

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/civichub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Backend names accepted by New.
const (
	BackendInline = "inline"
	BackendGridFS = "gridfs"
)

// DefaultBucket is the GridFS bucket attachments are written to.
const DefaultBucket = "attachments"

// ErrMissing is returned by Get when the attachment has no stored bytes.
var ErrMissing = errors.New("attachment not found")

// Store keeps attachment bytes somewhere and hands back the record fields
// that locate them.
type Store interface {
	Put(ctx context.Context, payload []byte, contentType string) (models.Attachment, error)
	Get(ctx context.Context, a models.Attachment) ([]byte, error)
	Delete(ctx context.Context, a models.Attachment) error
}

// New returns the Store for backend. Either store can read what the other
// wrote, so switching backends leaves existing records readable.
func New(backend string, db *mongo.Database) (Store, error) {
	gfs := NewGridFSStore(db, DefaultBucket)
	switch backend {
	case "", BackendInline:
		return &InlineStore{Refs: gfs}, nil
	case BackendGridFS:
		return gfs, nil
	}
	return nil, fmt.Errorf("unknown attachment store %q", backend)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Inline                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// InlineStore keeps the base64 payload in the record itself.
type InlineStore struct {
	// Refs reads and deletes attachments that were written to GridFS before
	// the backend was switched. Optional.
	Refs *GridFSStore
}

func (s *InlineStore) Put(_ context.Context, payload []byte, contentType string) (models.Attachment, error) {
	return models.Attachment{
		Data:        Encode(payload),
		ContentType: contentType,
		Size:        int64(len(payload)),
	}, nil
}

func (s *InlineStore) Get(ctx context.Context, a models.Attachment) ([]byte, error) {
	if a.Data != "" {
		return Decode(a.Data)
	}
	if a.Ref != nil && s.Refs != nil {
		return s.Refs.Get(ctx, a)
	}
	return nil, ErrMissing
}

func (s *InlineStore) Delete(ctx context.Context, a models.Attachment) error {
	if a.Ref != nil && s.Refs != nil {
		return s.Refs.Delete(ctx, a)
	}
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GridFS                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// GridFSStore writes the bytes to a GridFS bucket and records the file id.
type GridFSStore struct {
	db     *mongo.Database
	bucket string
}

func NewGridFSStore(db *mongo.Database, bucket string) *GridFSStore {
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &GridFSStore{db: db, bucket: bucket}
}

func (s *GridFSStore) open() (*gridfs.Bucket, error) {
	return gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucket))
}

func (s *GridFSStore) Put(ctx context.Context, payload []byte, contentType string) (models.Attachment, error) {
	b, err := s.open()
	if err != nil {
		return models.Attachment{}, err
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = b.SetWriteDeadline(dl)
	}
	opts := options.GridFSUpload().SetMetadata(bson.M{"content_type": contentType})
	id, err := b.UploadFromStream("image", bytes.NewReader(payload), opts)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("gridfs upload: %w", err)
	}
	return models.Attachment{
		Ref:         &id,
		ContentType: contentType,
		Size:        int64(len(payload)),
	}, nil
}

func (s *GridFSStore) Get(ctx context.Context, a models.Attachment) ([]byte, error) {
	if a.Data != "" {
		return Decode(a.Data)
	}
	if a.Ref == nil {
		return nil, ErrMissing
	}
	b, err := s.open()
	if err != nil {
		return nil, err
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = b.SetReadDeadline(dl)
	}
	var buf bytes.Buffer
	if _, err := b.DownloadToStream(*a.Ref, &buf); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrMissing
		}
		return nil, fmt.Errorf("gridfs download: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *GridFSStore) Delete(ctx context.Context, a models.Attachment) error {
	if a.Ref == nil {
		return nil
	}
	b, err := s.open()
	if err != nil {
		return err
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = b.SetWriteDeadline(dl)
	}
	if err := b.Delete(*a.Ref); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return fmt.Errorf("gridfs delete: %w", err)
	}
	return nil
}
