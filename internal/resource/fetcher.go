// Package resource fetches image resources such as the ocean normal map.
package resource

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// ErrTypeFetchFailed is the error type of failed fetches.
	ErrTypeFetchFailed = "fetch_failed"

	requestIDHeader = "X-Request-Id"
)

// Fetcher asynchronously resolves a URL to an image. Fetch blocks and is
// meant to run on a worker.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (image.Image, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (image.Image, error) {
	return f(ctx, url)
}

// HTTPFetcher fetches images over HTTP(S) or from the local filesystem.
type HTTPFetcher struct {
	Client *http.Client

	// The maximum number of bytes read from a response. Zero means no limit.
	MaxBytes int64
}

// NewHTTPFetcher returns a fetcher using client, or http.DefaultClient when
// client is nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{Client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (image.Image, error) {
	requestID := uuid.NewString()

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fetchError("parsing url failed", rawURL, requestID, err)
	}

	var body io.ReadCloser
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		body, err = f.get(ctx, rawURL, requestID)
	case "file":
		body, err = os.Open(u.Path)
	case "":
		body, err = os.Open(rawURL)
	default:
		return nil, fetchError("unsupported url scheme", rawURL, requestID,
			errors.Newf("scheme %q is not supported", u.Scheme))
	}
	if err != nil {
		return nil, fetchError("opening resource failed", rawURL, requestID, err)
	}
	defer body.Close()

	var r io.Reader = body
	if f.MaxBytes > 0 {
		r = io.LimitReader(body, f.MaxBytes)
	}

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fetchError("decoding image failed", rawURL, requestID, err)
	}

	logs.WithTag("url", rawURL).
		WithTag("request_id", requestID).
		WithTag("format", format).
		WithTag("bounds", img.Bounds().String()).
		Debug("resource fetched")
	return img, nil
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL, requestID string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(requestIDHeader, requestID)

	res, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, errors.New("unexpected status code").
			WithTag("status_code", res.StatusCode)
	}
	return res.Body, nil
}

func fetchError(msg, rawURL, requestID string, err error) error {
	return errors.New(msg).
		WithType(ErrTypeFetchFailed).
		WithTag("url", rawURL).
		WithTag("request_id", requestID).
		Wrap(err)
}
