// logfields.go
package logger

import (
	"time"

	"go.uber.org/zap"
)

// requestFields are the fields every request lifecycle entry starts with.
func requestFields(event, method, url string, extra ...zap.Field) []zap.Field {
	return append([]zap.Field{
		zap.String("event", event),
		zap.String("method", method),
		zap.String("url", url),
	}, extra...)
}

// LogRequestStart logs an outgoing request at debug level. Headers must already be redacted.
func (d *defaultLogger) LogRequestStart(event string, requestID string, method string, url string, headers map[string][]string) {
	if !d.enabled(LogLevelDebug) {
		return
	}
	d.logger.Debug("HTTP request started", requestFields(event, method, url,
		zap.String("request_id", requestID),
		zap.Any("headers", headers),
	)...)
}

// LogRequestEnd logs the status and round-trip time of a request at debug level.
func (d *defaultLogger) LogRequestEnd(event string, method string, url string, statusCode int, duration time.Duration) {
	if !d.enabled(LogLevelDebug) {
		return
	}
	d.logger.Debug("HTTP request completed", requestFields(event, method, url,
		zap.Int("status_code", statusCode),
		zap.Duration("duration", duration),
	)...)
}

// LogError logs a failed request together with the server's answer.
func (d *defaultLogger) LogError(event string, method string, url string, statusCode int, serverStatusMessage string, err error, rawResponse string) {
	if !d.enabled(LogLevelError) {
		return
	}
	var errorMessage string
	if err != nil {
		errorMessage = err.Error()
	}
	d.logger.Error("Error during HTTP request", requestFields(event, method, url,
		zap.Int("status_code", statusCode),
		zap.String("status_message", serverStatusMessage),
		zap.String("error_message", errorMessage),
		zap.String("raw_response", rawResponse),
	)...)
}

// LogRetryAttempt logs that a request is about to be sent again after waitDuration.
func (d *defaultLogger) LogRetryAttempt(event string, method string, url string, attempt int, reason string, waitDuration time.Duration, err error) {
	if !d.enabled(LogLevelWarn) {
		return
	}
	d.logger.Warn("HTTP request retry", requestFields(event, method, url,
		zap.Int("attempt", attempt),
		zap.String("reason", reason),
		zap.Duration("wait_duration", waitDuration),
		zap.Error(err),
	)...)
}

// LogRateLimiting logs a 429 answer and the wait derived from it.
func (d *defaultLogger) LogRateLimiting(event string, method string, url string, retryAfter string, waitDuration time.Duration) {
	if !d.enabled(LogLevelWarn) {
		return
	}
	d.logger.Warn("HTTP request rate-limited", requestFields(event, method, url,
		zap.String("retry_after", retryAfter),
		zap.Duration("wait_duration", waitDuration),
	)...)
}
