package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind names where the source image lives.
type Kind string

const (
	KindS3   Kind = "s3"
	KindHTTP Kind = "http"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindS3, KindHTTP:
		return k, nil
	default:
		return "", fmt.Errorf("unknown image source %q", s)
	}
}

var (
	// ErrNotFound means the object or URL does not exist.
	ErrNotFound = errors.New("source image not found")
	// ErrFetch covers every other failure to retrieve the source bytes.
	ErrFetch = errors.New("failed to fetch source image")
	// ErrTooLarge is wrapped in ErrFetch when a source exceeds the byte limit.
	ErrTooLarge = errors.New("source image exceeds the size limit")
)

// Locator identifies one source image. Bucket is only used by S3.
type Locator struct {
	Kind   Kind
	Bucket string
	Key    string
}

func (l Locator) String() string {
	if l.Kind == KindS3 {
		return fmt.Sprintf("s3://%s/%s", l.Bucket, strings.TrimPrefix(l.Key, "/"))
	}
	return l.Key
}

type Fetcher interface {
	Fetch(ctx context.Context, loc Locator) ([]byte, error)
}

// Sources dispatches on the locator kind.
type Sources map[Kind]Fetcher

func (s Sources) Fetch(ctx context.Context, loc Locator) ([]byte, error) {
	f, ok := s[loc.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: no fetcher for %s", ErrFetch, loc.Kind)
	}
	return f.Fetch(ctx, loc)
}

// NormalizeURL restores a scheme that was lost or had its slashes merged on the
// way through a request path, eg. "https:/host/a.png" or "host/a.png".
func NormalizeURL(raw string) string {
	raw = strings.TrimPrefix(raw, "/")
	for _, scheme := range []string{"https:", "http:"} {
		if rest, ok := strings.CutPrefix(raw, scheme); ok {
			return scheme + "//" + strings.TrimLeft(rest, "/")
		}
	}
	return "https://" + raw
}

func tooLarge(limit int64) error {
	return fmt.Errorf("%w: %w: more than %d bytes", ErrFetch, ErrTooLarge, limit)
}
