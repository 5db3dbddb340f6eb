package source

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDownloader struct {
	objects map[string][]byte
	err     error
	inputs  []*s3.GetObjectInput
}

func (m *mockDownloader) Download(w io.WriterAt, in *s3.GetObjectInput, opts ...func(*s3manager.Downloader)) (int64, error) {
	return m.DownloadWithContext(context.Background(), w, in, opts...)
}

func (m *mockDownloader) DownloadWithContext(_ aws.Context, w io.WriterAt, in *s3.GetObjectInput, _ ...func(*s3manager.Downloader)) (int64, error) {
	m.inputs = append(m.inputs, in)
	if m.err != nil {
		return 0, m.err
	}
	data, ok := m.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)]
	if !ok {
		return 0, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}
	n, err := w.WriteAt(data, 0)
	return int64(n), err
}

func TestS3Fetcher_Fetch(t *testing.T) {
	downloader := &mockDownloader{objects: map[string][]byte{
		"tenant-a/photos/cat.jpg": []byte("jpeg bytes"),
	}}

	t.Run("found", func(t *testing.T) {
		data, err := NewS3Fetcher(downloader, 0).Fetch(context.Background(), Locator{Kind: KindS3, Bucket: "tenant-a", Key: "/photos/cat.jpg"})
		require.NoError(t, err)
		assert.Equal(t, "jpeg bytes", string(data))
		assert.Nil(t, downloader.inputs[len(downloader.inputs)-1].Range)
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := NewS3Fetcher(downloader, 0).Fetch(context.Background(), Locator{Kind: KindS3, Bucket: "tenant-a", Key: "nope.jpg"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other failure", func(t *testing.T) {
		broken := &mockDownloader{err: errors.New("dial tcp: timeout")}
		_, err := NewS3Fetcher(broken, 0).Fetch(context.Background(), Locator{Kind: KindS3, Bucket: "tenant-a", Key: "x"})
		assert.ErrorIs(t, err, ErrFetch)
		assert.Contains(t, err.Error(), "s3://tenant-a/x")
	})

	t.Run("size limit", func(t *testing.T) {
		f := NewS3Fetcher(downloader, 4)
		_, err := f.Fetch(context.Background(), Locator{Kind: KindS3, Bucket: "tenant-a", Key: "photos/cat.jpg"})
		assert.ErrorIs(t, err, ErrTooLarge)
		assert.Equal(t, "bytes=0-4", aws.StringValue(downloader.inputs[len(downloader.inputs)-1].Range))
	})
}
