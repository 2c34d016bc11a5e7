// headers/headers_test.go
package headers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deploymenttheory/go-xpload/logger"
	"github.com/deploymenttheory/go-xpload/mocklogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetters(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://example.com", nil)
	headerHandler := NewHeaderHandler(req, logger.NewNop())

	headerHandler.SetContentType("application/x-www-form-urlencoded")
	headerHandler.SetAccept("")
	headerHandler.SetUserAgent("Go-http-client/1.23.0")
	headerHandler.SetCustomHeader("X-Trace", "abc")

	assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
	assert.Empty(t, req.Header.Get("Accept"), "empty Accept should not be set")
	assert.Equal(t, "Go-http-client/1.23.0", req.Header.Get("User-Agent"))
	assert.Equal(t, "abc", req.Header.Get("X-Trace"))
}

func TestLogHeaders_RedactsSensitiveValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.New(zap.New(core), logger.LogLevelDebug)

	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("User-Agent", "agent")

	NewHeaderHandler(req, log).LogHeaders(true)

	entries := logs.FilterMessage("HTTP Request Headers").All()
	if assert.Len(t, entries, 1) {
		headers := entries[0].ContextMap()["Headers"].(string)
		assert.Contains(t, headers, "Authorization: REDACTED")
		assert.Contains(t, headers, "User-Agent: agent")
		assert.NotContains(t, headers, "secret")
	}
}

func TestLogHeaders_SkippedAboveDebug(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	mockLog := mocklogger.NewMockLogger()
	mockLog.SetLevel(logger.LogLevelInfo)

	NewHeaderHandler(req, mockLog).LogHeaders(true)

	mockLog.AssertNotCalled(t, "Debug", mock.Anything, mock.Anything)
}

func TestHeadersToString(t *testing.T) {
	headers := http.Header{}
	headers.Add("X-B", "2")
	headers.Add("X-A", "1")
	headers.Add("X-A", "one")

	assert.Equal(t, strings.Join([]string{"X-A: 1, one", "X-B: 2"}, "\n"), HeadersToString(headers))
}

func TestCheckDeprecationHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/gt", nil)
	resp := &http.Response{Header: http.Header{}, Request: req}

	mockLog := mocklogger.NewMockLogger()
	CheckDeprecationHeader(resp, mockLog)
	mockLog.AssertNotCalled(t, "Warn", mock.Anything, mock.Anything)

	resp.Header.Set("Deprecation", "Sun, 01 Jan 2026 00:00:00 GMT")
	mockLog.On("Warn", "API endpoint is deprecated", mock.Anything).Once()
	CheckDeprecationHeader(resp, mockLog)
	mockLog.AssertExpectations(t)
}

func TestRedactSensitiveHeaderData(t *testing.T) {
	cases := []struct {
		name              string
		hideSensitiveData bool
		key               string
		value             string
		expected          string
	}{
		{"Sensitive Key With Redaction", true, "AccessToken", "some-sensitive-token", RedactedValue},
		{"Sensitive Key Without Redaction", false, "AccessToken", "some-sensitive-token", "some-sensitive-token"},
		{"Lowercase Sensitive Key", true, "authorization", "Bearer x", RedactedValue},
		{"Non-Sensitive Key With Redaction", true, "User-Agent", "MyCustomAgent", "MyCustomAgent"},
		{"Non-Sensitive Key Without Redaction", false, "User-Agent", "MyCustomAgent", "MyCustomAgent"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RedactSensitiveHeaderData(tc.hideSensitiveData, tc.key, tc.value))
		})
	}
}

func TestRedactHeaders(t *testing.T) {
	original := http.Header{}
	original.Set("Authorization", "Bearer secret")
	original.Set("Accept", "application/json")

	redacted := RedactHeaders(original, true)
	assert.Equal(t, RedactedValue, redacted.Get("Authorization"))
	assert.Equal(t, "application/json", redacted.Get("Accept"))
	assert.Equal(t, "Bearer secret", original.Get("Authorization"))

	assert.Equal(t, "Bearer secret", RedactHeaders(original, false).Get("Authorization"))
}
