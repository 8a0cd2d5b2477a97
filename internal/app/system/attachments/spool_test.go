package attachments_test

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/civichub/internal/app/system/attachments"
	"github.com/dalemusser/civichub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsed(t *testing.T, r *http.Request) func() {
	t.Helper()
	cleanup, err := attachments.ParseForm(r, 1<<20)
	require.NoError(t, err)
	return cleanup
}

func TestSpool_Success(t *testing.T) {
	dir := t.TempDir()
	r := testutil.MultipartRequest(t, http.MethodPost, "/worker", map[string]string{"name": "Asha"},
		testutil.Upload{Field: "image", Filename: "face.PNG", Data: testutil.TestImage})
	defer parsed(t, r)()

	s := attachments.Spooler{Dir: dir}
	up, release, err := s.Spool(r, "workers", "image")
	require.NoError(t, err)

	assert.Equal(t, testutil.TestImage, up.Payload)
	assert.Equal(t, "image/png", up.ContentType)
	assert.Equal(t, "face.PNG", up.Filename)
	assert.Equal(t, filepath.Join(dir, "workers"), filepath.Dir(up.Path))
	base := filepath.Base(up.Path)
	assert.True(t, strings.HasPrefix(base, "image-"), base)
	assert.True(t, strings.HasSuffix(base, ".png"), base)

	_, err = os.Stat(up.Path)
	require.NoError(t, err, "spooled file should exist until release")

	release()
	_, err = os.Stat(up.Path)
	assert.True(t, os.IsNotExist(err), "release must remove the spooled file")
}

func TestSpool_MissingFile(t *testing.T) {
	r := testutil.MultipartRequest(t, http.MethodPost, "/worker", map[string]string{"name": "Asha"})
	defer parsed(t, r)()

	_, release, err := attachments.Spooler{Dir: t.TempDir()}.Spool(r, "workers", "image")
	require.NotNil(t, release)
	release()
	assert.ErrorIs(t, err, attachments.ErrNoFile)
}

func TestSpool_TooLarge(t *testing.T) {
	dir := t.TempDir()
	big := append(append([]byte{}, testutil.TestImage...), bytes.Repeat([]byte{0}, 2048)...)
	r := testutil.MultipartRequest(t, http.MethodPost, "/worker", nil,
		testutil.Upload{Field: "image", Filename: "big.png", Data: big})
	defer parsed(t, r)()

	_, release, err := attachments.Spooler{Dir: dir, MaxBytes: 1024}.Spool(r, "workers", "image")
	defer release()
	assert.ErrorIs(t, err, attachments.ErrTooLarge)
	assertEmptyDir(t, filepath.Join(dir, "workers"))
}

func TestSpool_NotImage(t *testing.T) {
	dir := t.TempDir()
	r := testutil.MultipartRequest(t, http.MethodPost, "/worker", nil,
		testutil.Upload{Field: "image", Filename: "notes.txt", Data: []byte("just some text, not a picture")})
	defer parsed(t, r)()

	_, release, err := attachments.Spooler{Dir: dir}.Spool(r, "workers", "image")
	defer release()
	assert.ErrorIs(t, err, attachments.ErrNotImage)
	assertEmptyDir(t, filepath.Join(dir, "workers"))
}

func TestSpool_RejectsSVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(document.cookie)</script></svg>`)
	tests := []struct {
		name     string
		filename string
	}{
		{"svg name", "pic.svg"},
		{"png name", "pic.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			r := testutil.MultipartRequest(t, http.MethodPost, "/investment", nil,
				testutil.Upload{Field: "image", Filename: tt.filename, Data: svg})
			defer parsed(t, r)()

			_, release, err := attachments.Spooler{Dir: dir}.Spool(r, "investments", "image")
			defer release()
			assert.ErrorIs(t, err, attachments.ErrNotImage)
			assertEmptyDir(t, filepath.Join(dir, "investments"))
		})
	}
}

func TestIsRaster(t *testing.T) {
	assert.True(t, attachments.IsRaster("image/png"))
	assert.True(t, attachments.IsRaster("IMAGE/JPEG"))
	assert.False(t, attachments.IsRaster("image/svg+xml"))
	assert.False(t, attachments.IsRaster("text/html"))
	assert.False(t, attachments.IsRaster(""))
}

func TestParseForm_URLEncoded(t *testing.T) {
	r := testutil.FormRequest(http.MethodPost, "/news", map[string][]string{"title": {"Hello"}})
	cleanup, err := attachments.ParseForm(r, 1<<20)
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, "Hello", r.FormValue("title"))
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return
	}
	require.NoError(t, err)
	assert.Empty(t, entries, "spool dir should be empty")
}

func TestSpooler_Sweep(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "news"), 0o750))

	stale := filepath.Join(dir, "news", "image-1.png")
	fresh := filepath.Join(dir, "news", "image-2.png")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(fresh, []byte("y"), 0o600))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	n, err := attachments.Spooler{Dir: dir}.Sweep(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestSpooler_Sweep_MissingDir(t *testing.T) {
	n, err := attachments.Spooler{Dir: filepath.Join(t.TempDir(), "absent")}.Sweep(time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
