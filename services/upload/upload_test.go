package uploadsvc

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upbhushan/placement-iiitn--sub001/core"
)

func testConfig(t *testing.T) *core.Config {
	conf, err := core.LoadConfig("TEST", t.TempDir())
	require.NoError(t, err)
	return conf
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		filename string
		suffix   string
	}{
		{"resume.pdf", "-resume.pdf"},
		{"../../etc/passwd", "-passwd"},
		{"my cv (final).pdf", "-my_cv_final_.pdf"},
		{"...", "-file"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			key := objectKey(tt.filename, now)
			assert.True(t, strings.HasPrefix(key, "2024/03/07/"), key)
			assert.True(t, strings.HasSuffix(key, tt.suffix), key)
			assert.NotContains(t, key, "..")
		})
	}
}

func TestLocalUploader(t *testing.T) {
	conf := testConfig(t)
	conf.Upload.MaxSize = 16
	u := NewLocalUploader(conf)

	t.Run("stores the file", func(t *testing.T) {
		url, err := u.Upload(context.Background(), "cv.pdf", "application/pdf", strings.NewReader("%PDF-1.4"), 8)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "/uploads/"), url)

		content, err := os.ReadFile(filepath.Join(u.Dir(), filepath.FromSlash(strings.TrimPrefix(url, "/uploads/"))))
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4", string(content))
	})

	t.Run("rejects declared oversize", func(t *testing.T) {
		_, err := u.Upload(context.Background(), "big.bin", "", strings.NewReader("x"), 17)
		assert.Equal(t, ErrTooLarge, err)
	})

	t.Run("rejects undeclared oversize", func(t *testing.T) {
		_, err := u.Upload(context.Background(), "big.bin", "", bytes.NewReader(make([]byte, 32)), -1)
		assert.Equal(t, ErrTooLarge, err)
	})
}

type putterMock struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (m *putterMock) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.input = in
	if in.Body != nil {
		m.body, _ = io.ReadAll(in.Body)
	}
	return &s3.PutObjectOutput{}, m.err
}

func TestS3Uploader(t *testing.T) {
	conf := testConfig(t)
	conf.Upload.S3Bucket = "portal"
	conf.Upload.S3PublicURL = "https://files.example.com/"

	t.Run("puts the object", func(t *testing.T) {
		client := new(putterMock)
		u := newS3Uploader(client, conf)
		url, err := u.Upload(context.Background(), "offer.pdf", "application/pdf", strings.NewReader("data"), 4)
		require.NoError(t, err)

		require.NotNil(t, client.input)
		assert.Equal(t, "portal", *client.input.Bucket)
		assert.Equal(t, "application/pdf", *client.input.ContentType)
		assert.Equal(t, "https://files.example.com/portal/"+*client.input.Key, url)
		assert.Equal(t, "data", string(client.body))
	})

	t.Run("wraps client failures", func(t *testing.T) {
		u := newS3Uploader(&putterMock{err: errors.New("connection refused")}, conf)
		_, err := u.Upload(context.Background(), "offer.pdf", "", strings.NewReader("data"), 4)
		assert.True(t, core.IsExternalService(err))
	})
}

func TestNewUploader(t *testing.T) {
	conf := testConfig(t)
	u, err := NewUploader(conf)
	require.NoError(t, err)
	assert.IsType(t, &LocalUploader{}, u)

	conf.Upload.Driver = "ftp"
	_, err = NewUploader(conf)
	assert.Error(t, err)
}
