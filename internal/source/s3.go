package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"go.uber.org/zap"
)

type S3Options struct {
	Region         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// NewS3Session builds the AWS session shared by the fetcher and the health probe.
func NewS3Session(o S3Options) (*session.Session, error) {
	cfg := aws.NewConfig().
		WithRegion(o.Region).
		WithS3ForcePathStyle(o.ForcePathStyle)
	if o.Endpoint != "" {
		cfg = cfg.WithEndpoint(o.Endpoint)
	}
	if o.AccessKey != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(o.AccessKey, o.SecretKey, ""))
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 session: %w", err)
	}
	return sess, nil
}

// S3Fetcher downloads objects from a tenant bucket.
type S3Fetcher struct {
	downloader s3manageriface.DownloaderAPI
	maxBytes   int64
}

func NewS3Fetcher(downloader s3manageriface.DownloaderAPI, maxBytes int64) *S3Fetcher {
	return &S3Fetcher{downloader: downloader, maxBytes: maxBytes}
}

func NewS3FetcherFromSession(sess *session.Session, maxBytes int64) *S3Fetcher {
	return NewS3Fetcher(s3manager.NewDownloader(sess), maxBytes)
}

func (f *S3Fetcher) Fetch(ctx context.Context, loc Locator) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(strings.TrimPrefix(loc.Key, "/")),
	}
	if f.maxBytes > 0 {
		// one extra byte tells an object of exactly maxBytes from a larger one
		input.Range = aws.String(fmt.Sprintf("bytes=0-%d", f.maxBytes))
	}

	zap.S().Debugw("retrieving", "object", loc.String())
	buf := aws.NewWriteAtBuffer([]byte{})
	n, err := f.downloader.DownloadWithContext(ctx, buf, input)
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
		}
		return nil, fmt.Errorf("%w: failed at s3 download of %s: %v", ErrFetch, loc, err)
	}
	if f.maxBytes > 0 && n > f.maxBytes {
		return nil, tooLarge(f.maxBytes)
	}
	return buf.Bytes(), nil
}

func isS3NotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
		return true
	}
	return false
}
