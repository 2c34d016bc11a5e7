// redirecthandler/redirecthandler.go
package redirecthandler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/deploymenttheory/go-xpload/logger"
	"github.com/deploymenttheory/go-xpload/status"
	"go.uber.org/zap"
)

// RedirectHandler contains configurations for handling HTTP redirects.
type RedirectHandler struct {
	Logger             logger.Logger     // Logger instance for logging.
	MaxRedirects       int               // Maximum allowed redirects to prevent infinite loops.
	SensitiveHeaders   []string          // Headers to be removed on cross-host redirects.
	PermanentRedirects map[string]string // Cache for permanent redirects
	PermRedirectsMutex sync.RWMutex      // Mutex for safe concurrent access to PermanentRedirects
}

// NewRedirectHandler creates a new instance of RedirectHandler.
func NewRedirectHandler(log logger.Logger, maxRedirects int) *RedirectHandler {
	return &RedirectHandler{
		Logger:             log,
		MaxRedirects:       maxRedirects,
		SensitiveHeaders:   []string{"Authorization", "Cookie", "AccessToken"},
		PermanentRedirects: make(map[string]string),
	}
}

// AddSensitiveHeader allows adding configurable sensitive headers.
func (r *RedirectHandler) AddSensitiveHeader(header string) {
	r.SensitiveHeaders = append(r.SensitiveHeaders, header)
}

// WithRedirectHandling applies the redirect handling policy to an http.Client.
func (r *RedirectHandler) WithRedirectHandling(client *http.Client) {
	client.CheckRedirect = r.checkRedirect
}

// checkRedirect is called by net/http before following a redirect. req is the request about to be
// sent to the new location and via holds the requests made so far, oldest first.
func (r *RedirectHandler) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) == 0 {
		return nil
	}
	previous := via[len(via)-1]

	// Non-idempotent methods are never replayed
	if previous.Method == http.MethodPost || previous.Method == http.MethodPatch {
		r.Logger.Warn("Redirect attempted on non-idempotent method, not following", zap.String("method", previous.Method))
		return http.ErrUseLastResponse
	}

	if len(via) > r.MaxRedirects {
		r.Logger.Warn("Maximum redirects reached", zap.Int("maxRedirects", r.MaxRedirects))
		return &MaxRedirectsError{MaxRedirects: r.MaxRedirects}
	}

	if hasLoop(req.URL, via) {
		r.Logger.Error("Redirect loop detected", zap.String("url", req.URL.String()), zap.Int("redirectCount", len(via)))
		return &RedirectLoopError{URL: req.URL.String()}
	}

	if !strings.EqualFold(req.URL.Host, previous.URL.Host) {
		r.secureRequest(req)
	}

	if resp := req.Response; resp != nil {
		if status.IsPermanentRedirect(resp.StatusCode) {
			r.cachePermanentRedirect(previous.URL.String(), req.URL.String())
		}
		if resp.StatusCode == http.StatusSeeOther {
			adjustForSeeOther(req)
		}
	}

	r.Logger.Info("Redirecting request",
		zap.String("originalURL", previous.URL.String()),
		zap.String("newURL", req.URL.String()),
		zap.Int("redirectCount", len(via)),
	)
	return nil
}

// ResolvePermanentRedirect rewrites the URL of a GET or HEAD request to a cached permanent redirect
// target. It reports whether the request was rewritten.
func (r *RedirectHandler) ResolvePermanentRedirect(req *http.Request) bool {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return false
	}

	target, ok := r.checkPermanentRedirect(req.URL.String())
	if !ok {
		return false
	}

	parsedURL, err := url.Parse(target)
	if err != nil {
		r.Logger.Error("Failed to parse URL from cache", zap.String("url", target), zap.Error(err))
		return false
	}

	r.Logger.Debug("Using cached permanent redirect", zap.String("originalURL", req.URL.String()), zap.String("redirectURL", target))
	req.URL = parsedURL
	req.Host = ""
	return true
}

// secureRequest removes sensitive headers from a request headed to another host.
func (r *RedirectHandler) secureRequest(req *http.Request) {
	for _, header := range r.SensitiveHeaders {
		req.Header.Del(header)
	}
}

// adjustForSeeOther turns the follow-up of a "303 See Other" into a bodiless GET.
func adjustForSeeOther(req *http.Request) {
	req.Method = http.MethodGet
	req.Body = nil
	req.GetBody = nil
	req.ContentLength = 0
	req.Header.Del("Content-Type")
}

// RedirectLoopError represents an error when a redirect loop is detected.
type RedirectLoopError struct {
	URL string
}

func (e *RedirectLoopError) Error() string {
	return fmt.Sprintf("redirect loop detected at %s", e.URL)
}

// MaxRedirectsError represents an error when the maximum number of redirects is reached.
type MaxRedirectsError struct {
	MaxRedirects int
}

func (e *MaxRedirectsError) Error() string {
	return fmt.Sprintf("maximum redirects reached: %d", e.MaxRedirects)
}

func (r *RedirectHandler) cachePermanentRedirect(originalURL, redirectURL string) {
	r.PermRedirectsMutex.Lock()
	defer r.PermRedirectsMutex.Unlock()

	r.PermanentRedirects[originalURL] = redirectURL
}

func (r *RedirectHandler) checkPermanentRedirect(originalURL string) (string, bool) {
	r.PermRedirectsMutex.RLock()
	defer r.PermRedirectsMutex.RUnlock()

	target, exists := r.PermanentRedirects[originalURL]
	return target, exists
}

// hasLoop reports whether next was already visited in this redirect chain.
func hasLoop(next *url.URL, via []*http.Request) bool {
	target := next.String()
	for _, visited := range via {
		if visited.URL.String() == target {
			return true
		}
	}
	return false
}

// SetupRedirectHandler configures the redirect policy of client. With followRedirects false the
// first response is always returned as is. The returned handler is nil in that case.
func SetupRedirectHandler(client *http.Client, followRedirects bool, maxRedirects int, log logger.Logger) (*RedirectHandler, error) {
	if !followRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
		log.Debug("Redirect handling disabled")
		return nil, nil
	}

	if maxRedirects < 1 {
		log.Error("Invalid maxRedirects value", zap.Int("maxRedirects", maxRedirects))
		return nil, fmt.Errorf("invalid maxRedirects value: %d", maxRedirects)
	}

	redirectHandler := NewRedirectHandler(log, maxRedirects)
	redirectHandler.WithRedirectHandling(client)
	log.Info("Redirect handling enabled", zap.Int("MaxRedirects", maxRedirects))
	return redirectHandler, nil
}
