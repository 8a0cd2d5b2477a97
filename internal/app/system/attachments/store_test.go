package attachments_test

import (
	"context"
	"testing"

	"github.com/dalemusser/civichub/internal/app/system/attachments"
	"github.com/dalemusser/civichub/internal/domain/models"
	"github.com/dalemusser/civichub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestInlineStore(t *testing.T) {
	s := &attachments.InlineStore{}
	ctx := context.Background()

	a, err := s.Put(ctx, testutil.TestImage, "image/png")
	require.NoError(t, err)
	assert.NotEmpty(t, a.Data)
	assert.Nil(t, a.Ref)
	assert.Equal(t, "image/png", a.ContentType)
	assert.Equal(t, int64(len(testutil.TestImage)), a.Size)

	got, err := s.Get(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestImage, got)

	assert.NoError(t, s.Delete(ctx, a))

	_, err = s.Get(ctx, models.Attachment{})
	assert.ErrorIs(t, err, attachments.ErrMissing)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := attachments.New("s3", nil)
	assert.Error(t, err)
}

func TestGridFSStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := attachments.NewGridFSStore(db, "")

	a, err := s.Put(ctx, testutil.TestImage, "image/png")
	require.NoError(t, err)
	require.NotNil(t, a.Ref)
	assert.Empty(t, a.Data)

	got, err := s.Get(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestImage, got)

	require.NoError(t, s.Delete(ctx, a))
	_, err = s.Get(ctx, a)
	assert.ErrorIs(t, err, attachments.ErrMissing)

	// deleting twice is not an error
	assert.NoError(t, s.Delete(ctx, a))

	missing := primitive.NewObjectID()
	_, err = s.Get(ctx, models.Attachment{Ref: &missing})
	assert.ErrorIs(t, err, attachments.ErrMissing)
}

func TestMixedBackends(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	gfs, err := attachments.New(attachments.BackendGridFS, db)
	require.NoError(t, err)
	inline, err := attachments.New(attachments.BackendInline, db)
	require.NoError(t, err)

	fromGridFS, err := gfs.Put(ctx, []byte("gridfs bytes"), "image/png")
	require.NoError(t, err)
	fromInline, err := inline.Put(ctx, []byte("inline bytes"), "image/png")
	require.NoError(t, err)

	got, err := inline.Get(ctx, fromGridFS)
	require.NoError(t, err)
	assert.Equal(t, "gridfs bytes", string(got))

	got, err = gfs.Get(ctx, fromInline)
	require.NoError(t, err)
	assert.Equal(t, "inline bytes", string(got))
}
