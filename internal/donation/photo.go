package donation

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrPhotoExtension = errors.New("photo must be jpg, jpeg, png or webp")
	ErrStorageOff     = errors.New("photo storage is not configured")
)

var allowedPhotoExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// PhotoStore is the object store donation photos go to.
type PhotoStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// ValidatePhotoExtension returns the normalized extension and its content type.
func ValidatePhotoExtension(filename string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == "" {
		return "", "", errors.New("file extension missing")
	}

	contentType, ok := allowedPhotoExt[ext]
	if !ok {
		return "", "", ErrPhotoExtension
	}

	return ext, contentType, nil
}
