package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"secondhand/internal/domain/service"
)

const publicPrefix = "/uploads/"

// LocalStorage keeps uploaded images on disk under dir. Stored files are
// served by the HTTP server at /uploads/<name>.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %v", err)
	}
	return &LocalStorage{dir: dir}, nil
}

var _ service.FileStorage = (*LocalStorage)(nil)

func (s *LocalStorage) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %v", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file: %v", err)
	}
	return publicPrefix + name, nil
}

// Delete removes a file previously returned by Save. Unknown URLs are ignored.
func (s *LocalStorage) Delete(ctx context.Context, fileURL string) error {
	if !strings.HasPrefix(fileURL, publicPrefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(fileURL, publicPrefix))
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}
