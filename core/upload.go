package core

import (
	"context"
	"io"
)

// FileUploader stores a blob and returns a stable URL (absolute, or a path starting with "/") pointing to it.
type FileUploader interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
}
