// Package attachments receives image uploads, encodes them and keeps them
// in an attachment Store next to (inline) or referenced from (GridFS) the
// owning record.
package attachments

import (
	"encoding/base64"
	"errors"
)

var (
	// ErrNoFile means the request carried no file (or an empty one) in the field.
	ErrNoFile = errors.New("no file uploaded")
	// ErrTooLarge means the file exceeded the configured upload limit.
	ErrTooLarge = errors.New("file too large")
	// ErrNotImage means the payload is not an accepted raster image.
	ErrNotImage = errors.New("file is not an image")
)

// UserMessage maps an upload error to the text shown to the user. ok is
// false for errors that are not upload validation failures.
func UserMessage(err error) (msg string, ok bool) {
	switch {
	case errors.Is(err, ErrNoFile):
		return "Please choose image", true
	case errors.Is(err, ErrTooLarge):
		return "Image is too large", true
	case errors.Is(err, ErrNotImage):
		return "File must be an image", true
	}
	return "", false
}

// Encode returns the standard base64 text for payload.
func Encode(payload []byte) string {
	return base64.StdEncoding.EncodeToString(payload)
}

// Decode reverses Encode.
func Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
