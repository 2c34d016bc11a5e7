// ratehandler/ratehandler_test.go
package ratehandler

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/deploymenttheory/go-xpload/mocklogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestCalculateBackoff tests the backoff calculation for various retry counts
func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		retry       int
		expectedMin time.Duration
		expectedMax time.Duration
	}{
		{retry: 0, expectedMin: time.Duration(float64(baseDelay) * (1 - jitterFactor)), expectedMax: maxDelay},
		{retry: 1, expectedMin: time.Duration(float64(baseDelay*2) * (1 - jitterFactor)), expectedMax: maxDelay},
		{retry: 2, expectedMin: time.Duration(float64(baseDelay*4) * (1 - jitterFactor)), expectedMax: maxDelay},
		{retry: 5, expectedMin: time.Duration(float64(baseDelay*32) * (1 - jitterFactor)), expectedMax: maxDelay},
		{retry: 40, expectedMin: time.Duration(float64(maxDelay) * (1 - jitterFactor)), expectedMax: maxDelay},
	}

	for _, tt := range tests {
		t.Run("RetryCount"+strconv.Itoa(tt.retry), func(t *testing.T) {
			for i := 0; i < 50; i++ {
				delay := CalculateBackoff(tt.retry)

				assert.GreaterOrEqual(t, delay, tt.expectedMin, "Delay should be greater than or equal to expected minimum after jitter adjustment")
				assert.LessOrEqual(t, delay, tt.expectedMax, "Delay should be less than or equal to expected maximum")
			}
		})
	}
}

// TestParseRateLimitHeaders checks 'Retry-After' headers with both delay and date values,
// 'X-RateLimit-Reset' headers and responses without rate limiting headers.
func TestParseRateLimitHeaders(t *testing.T) {
	tests := []struct {
		name         string
		headers      map[string]string
		expectedWait time.Duration
	}{
		{
			name:         "RetryAfterInSeconds",
			headers:      map[string]string{"Retry-After": "120"},
			expectedWait: 2 * time.Minute,
		},
		{
			name:         "RetryAfterHTTPDate",
			headers:      map[string]string{"Retry-After": time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)},
			expectedWait: 30 * time.Second,
		},
		{
			name:         "RetryAfterDateInPast",
			headers:      map[string]string{"Retry-After": time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)},
			expectedWait: 0,
		},
		{
			name: "XRateLimitReset",
			headers: map[string]string{
				"X-RateLimit-Remaining": "0",
				"X-RateLimit-Reset":     strconv.FormatInt(time.Now().Add(90*time.Second).Unix(), 10),
			},
			expectedWait: 90*time.Second + skewBuffer,
		},
		{
			name: "XRateLimitRemainingNonZero",
			headers: map[string]string{
				"X-RateLimit-Remaining": "10",
				"X-RateLimit-Reset":     strconv.FormatInt(time.Now().Add(90*time.Second).Unix(), 10),
			},
			expectedWait: 0,
		},
		{
			name:         "NoHeaders",
			headers:      map[string]string{},
			expectedWait: 0,
		},
		{
			name:         "GarbageRetryAfter",
			headers:      map[string]string{"Retry-After": "soon"},
			expectedWait: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			for k, v := range tt.headers {
				resp.Header.Add(k, v)
			}

			mockLog := mocklogger.NewMockLogger()
			mockLog.On("Debug", mock.Anything, mock.Anything).Maybe()

			wait := ParseRateLimitHeaders(resp, mockLog)

			assert.InDelta(t, float64(tt.expectedWait), float64(wait), float64(2*time.Second), "Wait duration should be within expected range")
		})
	}
}
