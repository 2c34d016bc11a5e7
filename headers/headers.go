// headers/headers.go
package headers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/deploymenttheory/go-xpload/logger"
	"go.uber.org/zap"
)

// RedactedValue replaces sensitive header values in log output.
const RedactedValue = "REDACTED"

var sensitiveHeaders = map[string]bool{
	"Accesstoken":   true,
	"Authorization": true,
	"Cookie":        true,
}

// HeaderHandler is responsible for managing and setting headers on HTTP requests.
type HeaderHandler struct {
	req *http.Request // The http.Request for which headers are being managed
	log logger.Logger // The logger to use for logging headers
}

// NewHeaderHandler creates a new instance of HeaderHandler for a given http.Request and logger.
func NewHeaderHandler(req *http.Request, log logger.Logger) *HeaderHandler {
	return &HeaderHandler{
		req: req,
		log: log,
	}
}

// SetContentType sets the Content-Type header for the request. Empty values are ignored.
func (h *HeaderHandler) SetContentType(contentType string) {
	if contentType != "" {
		h.req.Header.Set("Content-Type", contentType)
	}
}

// SetAccept sets the Accept header for the request. Empty values are ignored.
func (h *HeaderHandler) SetAccept(acceptHeader string) {
	if acceptHeader != "" {
		h.req.Header.Set("Accept", acceptHeader)
	}
}

// SetUserAgent sets the User-Agent header for the request.
func (h *HeaderHandler) SetUserAgent(userAgent string) {
	h.req.Header.Set("User-Agent", userAgent)
}

// SetCustomHeader sets an arbitrary header for the request.
func (h *HeaderHandler) SetCustomHeader(name, value string) {
	h.req.Header.Set(name, value)
}

// LogHeaders writes the request headers at debug level, redacting sensitive values when
// hideSensitiveData is set.
func (h *HeaderHandler) LogHeaders(hideSensitiveData bool) {
	if h.log.GetLogLevel() > logger.LogLevelDebug {
		return
	}

	h.log.Debug("HTTP Request Headers", zap.String("Headers", HeadersToString(RedactHeaders(h.req.Header, hideSensitiveData))))
}

// RedactHeaders returns a copy of headers with sensitive values replaced when hideSensitiveData is set.
func RedactHeaders(headers http.Header, hideSensitiveData bool) http.Header {
	redacted := make(http.Header, len(headers))
	for name, values := range headers {
		for _, value := range values {
			redacted.Add(name, RedactSensitiveHeaderData(hideSensitiveData, name, value))
		}
	}
	return redacted
}

// HeadersToString converts a http.Header to a string for logging, one header per line in
// name order.
func HeadersToString(headers http.Header) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	headerStrings := make([]string, 0, len(names))
	for _, name := range names {
		headerStrings = append(headerStrings, fmt.Sprintf("%s: %s", name, strings.Join(headers[name], ", ")))
	}
	return strings.Join(headerStrings, "\n")
}

// CheckDeprecationHeader checks the response headers for the Deprecation header and logs a warning if present.
func CheckDeprecationHeader(resp *http.Response, log logger.Logger) {
	deprecationHeader := resp.Header.Get("Deprecation")
	if deprecationHeader == "" {
		return
	}

	endpoint := ""
	if resp.Request != nil && resp.Request.URL != nil {
		endpoint = resp.Request.URL.String()
	}
	log.Warn("API endpoint is deprecated",
		zap.String("Date", deprecationHeader),
		zap.String("Endpoint", endpoint),
	)
}

// RedactSensitiveHeaderData redacts sensitive data based on the hideSensitiveData flag.
func RedactSensitiveHeaderData(hideSensitiveData bool, key, value string) string {
	if hideSensitiveData && sensitiveHeaders[http.CanonicalHeaderKey(key)] {
		return RedactedValue
	}
	return value
}
