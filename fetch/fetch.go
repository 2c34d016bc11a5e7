// fetch/fetch.go
/* Package fetch posts a fixed form to a fixed endpoint. The caller gets nothing back: the response is
discarded and a failed transfer is only logged. */
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/deploymenttheory/go-xpload/headers"
	"github.com/deploymenttheory/go-xpload/httpclient"
	"github.com/deploymenttheory/go-xpload/logger"
	"github.com/deploymenttheory/go-xpload/version"
	"go.uber.org/zap"
)

const (
	DefaultURL  = "http://postit.example.com/moo.cgi"
	DefaultBody = "name=daniel&project=curl"

	formContentType = "application/x-www-form-urlencoded"
)

// Doer sends a single HTTP request. *httpclient.Client and *http.Client satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher posts its body to its URL on every Fetch.
type Fetcher struct {
	doer      Doer
	log       logger.Logger
	url       string
	body      string
	userAgent string
}

// Option customises a Fetcher.
type Option func(*Fetcher)

// WithURL replaces DefaultURL.
func WithURL(url string) Option {
	return func(f *Fetcher) { f.url = url }
}

// WithBody replaces DefaultBody.
func WithBody(body string) Option {
	return func(f *Fetcher) { f.body = body }
}

// WithUserAgent replaces the HTTP library user agent.
func WithUserAgent(userAgent string) Option {
	return func(f *Fetcher) { f.userAgent = userAgent }
}

// New returns a Fetcher sending through doer and reporting failures to log.
func New(doer Doer, log logger.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		doer:      doer,
		log:       log,
		url:       DefaultURL,
		body:      DefaultBody,
		userAgent: version.HTTPLibraryUserAgent(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch sends one POST and always returns ("", false). timestamp is accepted but not used. If the
// transfer does not complete, one error entry naming the failure is logged; any HTTP response,
// whatever its status, counts as a completed transfer.
func (f *Fetcher) Fetch(ctx context.Context, timestamp uint64) (string, bool) {
	if err := f.post(ctx); err != nil {
		f.log.Error("POST failed", zap.String("url", f.url), zap.Error(err))
	}
	return "", false
}

func (f *Fetcher) post(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, strings.NewReader(f.body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	headerHandler := headers.NewHeaderHandler(req, f.log)
	headerHandler.SetUserAgent(f.userAgent)
	headerHandler.SetContentType(formContentType)

	resp, err := f.doer.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	f.log.Debug("POST completed", zap.String("url", f.url), zap.Int("status_code", resp.StatusCode))
	return nil
}

// Fetch posts DefaultBody to DefaultURL through the process-wide shared client. See Fetcher.Fetch.
func Fetch(ctx context.Context, timestamp uint64) (string, bool) {
	client := httpclient.Shared()
	return New(client, client.Logger).Fetch(ctx, timestamp)
}
