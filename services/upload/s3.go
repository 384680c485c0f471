package uploadsvc

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"github.com/upbhushan/placement-iiitn--sub001/core"
)

// objectPutter is the subset of the S3 client used by S3Uploader.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores files in an S3 compatible bucket.
type S3Uploader struct {
	client    objectPutter
	bucket    string
	publicURL string
	maxSize   int64
	now       func() time.Time
}

var _ core.FileUploader = (*S3Uploader)(nil)

func NewS3Uploader(conf *core.Config) (*S3Uploader, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(conf.Upload.S3Region)}
	if conf.Upload.S3AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			conf.Upload.S3AccessKey,
			conf.Upload.S3SecretKey,
			"",
		)))
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "loading aws config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.Upload.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Upload.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Uploader(client, conf), nil
}

func newS3Uploader(client objectPutter, conf *core.Config) *S3Uploader {
	publicURL := conf.Upload.S3PublicURL
	if publicURL == "" {
		publicURL = conf.Upload.S3Endpoint
	}
	return &S3Uploader{
		client:    client,
		bucket:    conf.Upload.S3Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxSize:   conf.Upload.MaxSize,
		now:       time.Now,
	}
}

func (u *S3Uploader) Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	if u.maxSize > 0 && size > u.maxSize {
		return "", ErrTooLarge
	}
	key := objectKey(filename, u.now().UTC())
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := u.client.PutObject(ctx, in); err != nil {
		return "", core.NewExternalServiceError("s3", errors.Wrap(err, "uploading object"))
	}
	return u.publicURL + "/" + u.bucket + "/" + key, nil
}
