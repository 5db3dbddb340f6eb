package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher downloads remote images.
type HTTPFetcher struct {
	client   HTTPClient
	timeout  time.Duration
	maxBytes int64
}

func NewHTTPFetcher(client HTTPClient, timeout time.Duration, maxBytes int64) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPFetcher{client: client, timeout: timeout, maxBytes: maxBytes}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, loc Locator) (data []byte, err error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	url := loc.Key
	zap.S().Debugw("retrieving", "url", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "image/*")

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch from %s: %v", ErrFetch, url, err)
	}
	defer func() {
		err = multierr.Append(err, res.Body.Close())
	}()

	switch {
	case res.StatusCode == http.StatusNotFound || res.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	case res.StatusCode > 299:
		return nil, fmt.Errorf("%w: http status response from %s: %s", ErrFetch, url, res.Status)
	}

	body := io.Reader(res.Body)
	if f.maxBytes > 0 {
		body = io.LimitReader(res.Body, f.maxBytes+1)
	}
	data, err = io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed reading %s: %v", ErrFetch, url, err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, tooLarge(f.maxBytes)
	}
	return data, nil
}
