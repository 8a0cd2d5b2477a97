package attachments

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxBytes is used when a Spooler has no MaxBytes.
const DefaultMaxBytes = 8 << 20

// Upload is a spooled file read back into memory.
type Upload struct {
	Payload     []byte
	ContentType string
	Filename    string
	Path        string
}

// Spooler copies a multipart file to a scoped temp file under Dir before it
// is read and encoded.
type Spooler struct {
	Dir      string
	MaxBytes int64
}

func (s Spooler) maxBytes() int64 {
	if s.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return s.MaxBytes
}

// Spool copies the file in field to <Dir>/<kind>/<field>-<unixnano>-<uuid><ext>
// and reads it back. release removes the spooled file; it is never nil and
// callers defer it straight away, whatever the error.
func (s Spooler) Spool(r *http.Request, kind, field string) (up Upload, release func(), err error) {
	release = func() {}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return Upload{}, release, ErrNoFile
		}
		return Upload{}, release, err
	}
	defer file.Close()

	if header.Size == 0 {
		return Upload{}, release, ErrNoFile
	}
	if header.Size > s.maxBytes() {
		return Upload{}, release, ErrTooLarge
	}

	dir := filepath.Join(s.Dir, kind)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return Upload{}, release, fmt.Errorf("create upload dir: %w", err)
	}
	name := fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixNano(), uuid.NewString(), cleanExt(header.Filename))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return Upload{}, release, fmt.Errorf("create spool file: %w", err)
	}
	release = func() { _ = os.Remove(path) }

	n, err := io.Copy(f, io.LimitReader(file, s.maxBytes()+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		release()
		return Upload{}, func() {}, fmt.Errorf("spool upload: %w", err)
	}
	if n > s.maxBytes() {
		release()
		return Upload{}, func() {}, ErrTooLarge
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		release()
		return Upload{}, func() {}, fmt.Errorf("read spool file: %w", err)
	}

	ct := contentType(payload)
	if !IsRaster(ct) {
		release()
		return Upload{}, func() {}, ErrNotImage
	}

	return Upload{
		Payload:     payload,
		ContentType: ct,
		Filename:    header.Filename,
		Path:        path,
	}, release, nil
}

// rasterTypes are the image types accepted for upload. Scriptable formats
// such as image/svg+xml are not.
var rasterTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/avif": true,
	"image/tiff": true,
}

// IsRaster reports whether ct is an accepted raster image type.
func IsRaster(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && rasterTypes[strings.ToLower(mt)]
}

// contentType sniffs the payload. The client's declared type is ignored.
func contentType(payload []byte) string {
	mt, _, _ := mime.ParseMediaType(mimetype.Detect(payload).String())
	return strings.ToLower(mt)
}

func cleanExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		return ""
	}
	return ext
}

// ParseForm parses a multipart (or url-encoded) body. The returned cleanup
// removes any multipart temp files and is safe to defer on every path.
func ParseForm(r *http.Request, maxMemory int64) (cleanup func(), err error) {
	cleanup = func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return cleanup, r.ParseForm()
		}
		return cleanup, err
	}
	return cleanup, nil
}

// Sweep removes spooled files under Dir older than maxAge. Spool files are
// normally released by the request that made them; this catches the ones a
// crash or timeout left behind. Returns the number removed.
func (s Spooler) Sweep(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	err := filepath.WalkDir(s.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				removed++
			}
		}
		return nil
	})
	return removed, err
}
