package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sellio/sellio-backend/pkg/logger"
)

// LocalStorage writes images to a directory on disk. The directory is
// expected to be served as static files under baseURL.
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &LocalStorage{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalStorage) Store(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	ext, err := ValidateContentType(contentType)
	if err != nil {
		return "", err
	}

	// Stored names are random; the original filename only picks the
	// extension when the MIME lookup has no opinion.
	if orig := filepath.Ext(filename); orig != "" {
		ext = strings.ToLower(orig)
	}
	name := uuid.NewString() + ext
	dst := filepath.Join(s.dir, name)

	file, err := os.Create(dst)
	if err != nil {
		logger.Error("Failed to create upload file", err, map[string]interface{}{
			"path": dst,
		})
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		os.Remove(dst)
		logger.Error("Failed to write upload file", err, map[string]interface{}{
			"path": dst,
		})
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	url := s.baseURL + "/" + name
	logger.Debug("Image stored locally", map[string]interface{}{
		"path": dst,
		"url":  url,
	})
	return url, nil
}

func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	name := path.Base(url)
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("invalid image url %q", url)
	}

	dst := filepath.Join(s.dir, name)
	if err := os.Remove(dst); err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Image already removed from local storage", map[string]interface{}{
				"path": dst,
			})
			return nil
		}
		logger.Error("Failed to delete local image", err, map[string]interface{}{
			"path": dst,
		})
		return err
	}

	logger.Debug("Image deleted from local storage", map[string]interface{}{
		"path": dst,
	})
	return nil
}
