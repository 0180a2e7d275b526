package service

import (
	"context"
	"io"
)

// FileStorage keeps uploaded product images and returns the root-relative
// URL they are served under.
type FileStorage interface {
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
	Delete(ctx context.Context, fileURL string) error
}
