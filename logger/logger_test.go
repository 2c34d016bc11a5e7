// logger_test.go
package logger

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level LogLevel) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core), level), logs
}

func TestParseLogLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"LogLevelDebug", LogLevelDebug},
		{"LogLevelInfo", LogLevelInfo},
		{"LogLevelWarn", LogLevelWarn},
		{"LogLevelError", LogLevelError},
		{"LogLevelDPanic", LogLevelDPanic},
		{"LogLevelPanic", LogLevelPanic},
		{"LogLevelFatal", LogLevelFatal},
		{"verbose", LogLevelNone},
		{"", LogLevelNone},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLogLevelFromString(tt.input))
		})
	}
}

// TestDefaultLogger_SetLevel tests the SetLevel method of defaultLogger
func TestDefaultLogger_SetLevel(t *testing.T) {
	dLogger := &defaultLogger{logger: zap.NewNop()}

	dLogger.SetLevel(LogLevelWarn)
	assert.Equal(t, LogLevelWarn, dLogger.GetLogLevel())
}

// TestDefaultLogger_With verifies the contextual fields are carried to every entry.
func TestDefaultLogger_With(t *testing.T) {
	log, logs := newObservedLogger(LogLevelInfo)

	child := log.With(zap.String("component", "payloaddb"))
	child.Info("listing tags")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "payloaddb", logs.All()[0].ContextMap()["component"])
	assert.Equal(t, LogLevelInfo, child.GetLogLevel())
}

func TestDefaultLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected []string
	}{
		{LogLevelDebug, []string{"debug", "info", "warn", "error"}},
		{LogLevelInfo, []string{"info", "warn", "error"}},
		{LogLevelWarn, []string{"warn", "error"}},
		{LogLevelError, []string{"error"}},
		{LogLevelNone, nil},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("LogLevel %d", tt.level), func(t *testing.T) {
			log, logs := newObservedLogger(tt.level)

			log.Debug("debug")
			log.Info("info")
			log.Warn("warn")
			_ = log.Error("error")

			var got []string
			for _, entry := range logs.All() {
				got = append(got, entry.Message)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestDefaultLogger_Error checks that Error both logs and returns the message as an error.
func TestDefaultLogger_Error(t *testing.T) {
	log, logs := newObservedLogger(LogLevelError)

	err := log.Error("failed to acquire permit", zap.Error(errors.New("deadline exceeded")))

	require.Error(t, err)
	assert.Equal(t, "failed to acquire permit", err.Error())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
	assert.Equal(t, "deadline exceeded", logs.All()[0].ContextMap()["error"])
}

func TestDefaultLogger_RequestHelpers(t *testing.T) {
	log, logs := newObservedLogger(LogLevelDebug)

	log.LogRequestStart("request_start", "id-1", "GET", "http://db/gt", map[string][]string{"Accept": {"application/json"}})
	log.LogRequestEnd("request_end", "GET", "http://db/gt", 200, 15*time.Millisecond)
	log.LogRetryAttempt("retry_attempt", "GET", "http://db/gt", 1, "service unavailable", time.Second, nil)
	log.LogRateLimiting("rate_limited", "GET", "http://db/gt", "2", 2*time.Second)
	log.LogError("request_error", "POST", "http://db/gt", 400, "400 Bad Request", errors.New("bad"), "{}")

	require.Equal(t, 5, logs.Len())
	assert.Equal(t, "id-1", logs.All()[0].ContextMap()["request_id"])
	assert.Equal(t, int64(200), logs.All()[1].ContextMap()["status_code"])
	assert.Equal(t, zapcore.WarnLevel, logs.All()[2].Level)
	assert.Equal(t, "2", logs.All()[3].ContextMap()["retry_after"])
	assert.Equal(t, "bad", logs.All()[4].ContextMap()["error_message"])
}

func TestNewNop(t *testing.T) {
	log := NewNop()

	assert.NotPanics(t, func() {
		log.Info("ignored")
		log.LogRequestEnd("request_end", "GET", "http://db", 200, time.Second)
	})
	assert.Error(t, log.Error("still returned"))
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "LogLevelWarn", LogLevelWarn.String())
	assert.Equal(t, "LogLevelNone", LogLevel(42).String())

	for level := LogLevelDebug; level <= LogLevelNone; level++ {
		assert.Equal(t, level, ParseLogLevelFromString(level.String()))
	}
}
