// status.go
/* Package status sorts HTTP status codes into the classes the client acts on: success, redirect,
rate limited, transient (worth retrying) and permanent failure. */
package status

import (
	"net/http"
)

// Class is the retry class of a status code.
type Class int

const (
	ClassOther Class = iota
	ClassSuccess
	ClassRedirect
	ClassRateLimited
	ClassTransient
	ClassPermanent
)

// Classify returns the class of statusCode. 408 is transient; every 4xx other than 408 and 429 is
// permanent; 500, 502, 503 and 504 are transient.
func Classify(statusCode int) Class {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return ClassSuccess
	case IsRedirectStatusCode(statusCode):
		return ClassRedirect
	case statusCode == http.StatusTooManyRequests:
		return ClassRateLimited
	case statusCode == http.StatusRequestTimeout,
		statusCode == http.StatusInternalServerError,
		statusCode == http.StatusBadGateway,
		statusCode == http.StatusServiceUnavailable,
		statusCode == http.StatusGatewayTimeout:
		return ClassTransient
	case statusCode >= 400 && statusCode < 500:
		return ClassPermanent
	default:
		return ClassOther
	}
}

// IsRedirectStatusCode reports whether statusCode is a redirect carrying a Location to follow.
// 304 Not Modified is not one.
func IsRedirectStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// IsPermanentRedirect reports whether statusCode is 301 or 308.
func IsPermanentRedirect(statusCode int) bool {
	return statusCode == http.StatusMovedPermanently || statusCode == http.StatusPermanentRedirect
}

func IsSuccessStatusCode(statusCode int) bool {
	return Classify(statusCode) == ClassSuccess
}

// IsNonRetryableStatusCode reports whether resp is a client error that a retry cannot fix.
func IsNonRetryableStatusCode(resp *http.Response) bool {
	return resp != nil && Classify(resp.StatusCode) == ClassPermanent
}

func IsRateLimitError(resp *http.Response) bool {
	return resp != nil && Classify(resp.StatusCode) == ClassRateLimited
}

// IsTransientError reports whether resp is a 5xx gateway or availability error.
func IsTransientError(resp *http.Response) bool {
	return resp != nil && resp.StatusCode >= 500 && Classify(resp.StatusCode) == ClassTransient
}

// IsRetryableStatusCode reports whether a request answered with statusCode may be sent again.
func IsRetryableStatusCode(statusCode int) bool {
	class := Classify(statusCode)
	return class == ClassTransient || class == ClassRateLimited
}

// TranslateStatusCode returns the reason phrase of resp's status.
func TranslateStatusCode(resp *http.Response) string {
	if resp == nil {
		return "no response"
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return "unknown status code"
}
