package attachments_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/dalemusser/civichub/internal/app/system/attachments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	random := make([]byte, 4096)
	_, err := rand.Read(random)
	require.NoError(t, err)

	for _, payload := range [][]byte{{}, {0x00}, []byte("hello"), random} {
		got, err := attachments.Decode(attachments.Encode(payload))
		require.NoError(t, err)
		assert.True(t, bytes.Equal(payload, got), "round trip changed %d bytes", len(payload))
	}
}

func TestEncode_StandardBase64(t *testing.T) {
	assert.Equal(t, "aGVsbG8=", attachments.Encode([]byte("hello")))
}

func TestDecode_Invalid(t *testing.T) {
	_, err := attachments.Decode("not base64!")
	assert.Error(t, err)
}

func TestUserMessage(t *testing.T) {
	msg, ok := attachments.UserMessage(attachments.ErrNoFile)
	assert.True(t, ok)
	assert.Equal(t, "Please choose image", msg)

	_, ok = attachments.UserMessage(attachments.ErrTooLarge)
	assert.True(t, ok)
	_, ok = attachments.UserMessage(attachments.ErrNotImage)
	assert.True(t, ok)

	_, ok = attachments.UserMessage(errors.New("disk full"))
	assert.False(t, ok)
}
