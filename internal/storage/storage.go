package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/sellio/sellio-backend/config"
)

// Allowed upload constraints, shared by every backend.
const (
	MaxUploadSize = 5 << 20 // 5 MiB
)

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStorage stores and removes product images. Implementations return a
// public URL for the stored object; callers persist only that URL.
type ImageStorage interface {
	Store(ctx context.Context, filename, contentType string, content io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// New selects the backend from configuration.
func New(cfg config.UploadConfig) (ImageStorage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Storage(cfg.S3), nil
	case "local", "":
		return NewLocalStorage(cfg.LocalDir, cfg.LocalBaseURL)
	default:
		return nil, fmt.Errorf("unknown upload driver %q", cfg.Driver)
	}
}

// ValidateContentType reports whether the MIME type is an accepted image
// format and returns the canonical file extension for it.
func ValidateContentType(contentType string) (string, error) {
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", fmt.Errorf("content type %s is not allowed", contentType)
	}
	return ext, nil
}

// ValidateFileSize rejects uploads over MaxUploadSize.
func ValidateFileSize(size int64) error {
	if size > MaxUploadSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", int64(MaxUploadSize))
	}
	return nil
}
