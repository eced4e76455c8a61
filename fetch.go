package recinject

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultMaxResourceSize is the largest shared resource Fetch accepts when
// Fetcher.MaxSize is unset.
const DefaultMaxResourceSize = 4 << 20

// Fetcher retrieves the shared resource.
type Fetcher struct {
	Client *http.Client

	// MaxSize is the largest body, in bytes, Fetch reads before failing.
	// Zero means DefaultMaxResourceSize.
	MaxSize int64
}

// Fetch retrieves url and returns its body. Any status outside 2xx fails
// with a *FetchError of kind FetchErrorStatus; failing to get or read a
// response fails with kind FetchErrorTransport. Fetch never retries.
func (f Fetcher) Fetch(ctx context.Context, url string) (text string, err error) {
	ctx, span := startSpan(ctx, "recinject.fetch", attribute.String("url", url))
	defer func() { endSpan(span, err) }()

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Kind: FetchErrorTransport, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Kind: FetchErrorTransport, Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, Kind: FetchErrorStatus, StatusCode: resp.StatusCode}
	}

	limit := f.MaxSize
	if limit <= 0 {
		limit = DefaultMaxResourceSize
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", &FetchError{URL: url, Kind: FetchErrorTransport, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > limit {
		return "", &FetchError{URL: url, Kind: FetchErrorTransport, Err: fmt.Errorf("%w: more than %d bytes", ErrResourceTooLarge, limit)}
	}
	return string(body), nil
}
