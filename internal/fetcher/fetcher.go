package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nao1215/seocrawl/internal/model"
)

// ErrorKind classifies fetch failures for the retry policy.
type ErrorKind int

const (
	// KindConnection covers DNS failures, refused connections, and resets.
	// Transient: retried.
	KindConnection ErrorKind = iota

	// KindTimeout covers request deadlines and network timeouts.
	// Transient: retried.
	KindTimeout

	// KindTooManyRedirects means the redirect chain exceeded the bound.
	// Permanent: never retried.
	KindTooManyRedirects
)

// String returns a stable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTooManyRedirects:
		return "too-many-redirects"
	default:
		return "connection"
	}
}

// Error is a typed fetch failure.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// URL is the requested URL.
	URL string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Transient reports whether the failure is worth retrying.
func (e *Error) Transient() bool {
	return e.Kind == KindTimeout || e.Kind == KindConnection
}

// errRedirectBound is the sentinel the redirect policy returns; the
// http.Client wraps it in a *url.Error, and classify unwraps it back.
var errRedirectBound = errors.New("redirect bound exceeded")

// Options configures a Fetcher.
type Options struct {
	// Timeout bounds each request end to end, including redirects and
	// body read.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize caps how many body bytes are read. Larger bodies are
	// truncated, not failed: a page that renders is a page worth analyzing.
	MaxBodySize int64

	// MaxRedirects bounds the redirect chain per request.
	MaxRedirects int
}

// Fetcher performs single bounded HTTP GET requests.
type Fetcher struct {
	client *http.Client
	opts   Options
}

// New creates a Fetcher. The underlying client follows redirects up to the
// configured bound and pools connections across requests.
func New(opts Options) *Fetcher {
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = 5
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = 10 * 1024 * 1024
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= opts.MaxRedirects {
				return errRedirectBound
			}
			return nil
		},
	}

	return &Fetcher{client: client, opts: opts}
}

// Client exposes the underlying HTTP client so collaborators that must
// share connection pooling and proxy settings (the robots.txt cache) can
// reuse it.
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// Fetch performs one GET request. HTTP error statuses are not failures at
// this layer: the result carries the status code and the caller's retry
// policy decides. A non-nil error is always a *fetcher.Error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindConnection, URL: rawURL, Err: err}
	}

	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8,es;q=0.5")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.classify(rawURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodySize))
	if err != nil {
		return nil, f.classify(rawURL, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	return &model.FetchResult{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		Headers:     resp.Header,
		ContentType: strings.ToLower(contentType),
		Body:        body,
		Elapsed:     time.Since(start),
	}, nil
}

// classify maps a transport error onto the fetch error taxonomy.
func (f *Fetcher) classify(rawURL string, err error) *Error {
	if errors.Is(err, errRedirectBound) {
		return &Error{Kind: KindTooManyRedirects, URL: rawURL, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, URL: rawURL, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, URL: rawURL, Err: err}
	}

	return &Error{Kind: KindConnection, URL: rawURL, Err: err}
}
