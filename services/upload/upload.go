package uploadsvc

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/upbhushan/placement-iiitn--sub001/core"
)

var (
	ErrTooLarge = core.NewValidationError(nil, core.FieldError{Field: "file", Error: "file is too large"})

	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// objectKey builds a unique, date-partitioned key keeping a sanitised copy of the filename.
func objectKey(filename string, now time.Time) string {
	base := unsafeChars.ReplaceAllString(filepath.Base(filename), "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "file"
	}
	return path.Join(
		fmt.Sprintf("%04d/%02d/%02d", now.Year(), now.Month(), now.Day()),
		uuid.NewString()+"-"+base,
	)
}

// NewUploader returns the uploader selected by `upload.driver`.
func NewUploader(conf *core.Config) (core.FileUploader, error) {
	switch conf.Upload.Driver {
	case "", "local":
		return NewLocalUploader(conf), nil
	case "s3":
		return NewS3Uploader(conf)
	}
	return nil, fmt.Errorf("unknown upload driver %q", conf.Upload.Driver)
}
