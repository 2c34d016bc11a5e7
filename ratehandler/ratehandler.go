// ratehandler/ratehandler.go

/*
Package ratehandler computes how long a client should wait before retrying a request.
Two sources are used: an exponential backoff with jitter for transient failures, and the
rate limiting headers a server sends back ('Retry-After', 'X-RateLimit-*').
*/
package ratehandler

import (
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/deploymenttheory/go-xpload/logger"
	"go.uber.org/zap"
)

const (
	baseDelay    = 100 * time.Millisecond // Initial delay before the first retry
	maxDelay     = 10 * time.Second       // Upper bound for any backoff delay
	jitterFactor = 0.5                    // Maximum proportional jitter applied to the delay
	skewBuffer   = 5 * time.Second        // Added to reset times to absorb clock skew
)

// CalculateBackoff returns the delay before retry number retry (zero based): baseDelay doubled per
// retry, randomized by up to jitterFactor in either direction and capped at maxDelay.
func CalculateBackoff(retry int) time.Duration {
	if retry < 0 {
		retry = 0
	}

	delay := float64(baseDelay) * math.Pow(2, float64(retry))
	if delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}

	jitter := (rand.Float64()*2 - 1) * jitterFactor * delay
	delay += jitter
	if delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}

	return time.Duration(delay)
}

// ParseRateLimitHeaders returns how long to wait according to the response's rate limiting headers,
// or zero when the response carries none.
func ParseRateLimitHeaders(resp *http.Response, log logger.Logger) time.Duration {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			return time.Duration(seconds) * time.Second
		}
		if retryTime, err := http.ParseTime(retryAfter); err == nil {
			return nonNegative(time.Until(retryTime))
		}
		log.Debug("Unparseable Retry-After header", zap.String("retry_after", retryAfter))
	}

	if resp.Header.Get("X-RateLimit-Remaining") == "0" {
		if resetHeader := resp.Header.Get("X-RateLimit-Reset"); resetHeader != "" {
			if resetTimeUnix, err := strconv.ParseInt(resetHeader, 10, 64); err == nil {
				wait := time.Until(time.Unix(resetTimeUnix, 0)) + skewBuffer
				return nonNegative(wait)
			}
			log.Debug("Unparseable X-RateLimit-Reset header", zap.String("reset", resetHeader))
		}
	}

	return 0
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
