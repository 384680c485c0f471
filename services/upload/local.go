package uploadsvc

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/upbhushan/placement-iiitn--sub001/core"
)

// LocalUploader stores files under a directory served at `publicPath`.
type LocalUploader struct {
	dir        string
	publicPath string
	maxSize    int64
	now        func() time.Time
}

var _ core.FileUploader = (*LocalUploader)(nil)

func NewLocalUploader(conf *core.Config) *LocalUploader {
	dir := conf.Upload.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(conf.WorkDir, dir)
	}
	return &LocalUploader{
		dir:        dir,
		publicPath: "/" + strings.Trim(conf.Upload.PublicPath, "/"),
		maxSize:    conf.Upload.MaxSize,
		now:        time.Now,
	}
}

func (u *LocalUploader) Dir() string { return u.dir }

func (u *LocalUploader) Upload(ctx context.Context, filename, _ string, r io.Reader, size int64) (string, error) {
	if u.maxSize > 0 && size > u.maxSize {
		return "", ErrTooLarge
	}
	key := objectKey(filename, u.now().UTC())
	fp := filepath.Join(u.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return "", errors.Wrap(err, "creating upload dir")
	}

	f, err := os.Create(fp)
	if err != nil {
		return "", errors.Wrap(err, "creating upload file")
	}
	src := r
	if u.maxSize > 0 {
		src = io.LimitReader(r, u.maxSize+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err == nil && u.maxSize > 0 && n > u.maxSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(fp)
		if err == ErrTooLarge {
			return "", err
		}
		return "", errors.Wrap(err, "writing upload file")
	}
	return path.Join(u.publicPath, key), nil
}
