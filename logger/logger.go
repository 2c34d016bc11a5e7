// logger.go
/* Package logger is the structured logging layer shared by every xpload package. Entries go through
zap; a Logger also carries its own level so callers can filter before any field is built. */
package logger

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel mirrors zap's levels; LogLevelNone silences a Logger.
type LogLevel int

const (
	LogLevelDebug  LogLevel = -1
	LogLevelInfo   LogLevel = 0
	LogLevelWarn   LogLevel = 1
	LogLevelError  LogLevel = 2
	LogLevelDPanic LogLevel = 3
	LogLevelPanic  LogLevel = 4
	LogLevelFatal  LogLevel = 5
	LogLevelNone   LogLevel = 6
)

var levelNames = map[LogLevel]string{
	LogLevelDebug:  "LogLevelDebug",
	LogLevelInfo:   "LogLevelInfo",
	LogLevelWarn:   "LogLevelWarn",
	LogLevelError:  "LogLevelError",
	LogLevelDPanic: "LogLevelDPanic",
	LogLevelPanic:  "LogLevelPanic",
	LogLevelFatal:  "LogLevelFatal",
	LogLevelNone:   "LogLevelNone",
}

// String returns the configuration name of the level, e.g. "LogLevelWarn".
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "LogLevelNone"
}

// ParseLogLevelFromString maps a configuration name such as "LogLevelDebug" to its LogLevel.
// Unknown names give LogLevelNone.
func ParseLogLevelFromString(levelStr string) LogLevel {
	for level, name := range levelNames {
		if name == levelStr {
			return level
		}
	}
	return LogLevelNone
}

// Logger is the logging interface handed to every component.
type Logger interface {
	SetLevel(level LogLevel)
	GetLogLevel() LogLevel
	With(fields ...zapcore.Field) Logger
	Debug(msg string, fields ...zapcore.Field)
	Info(msg string, fields ...zapcore.Field)
	Warn(msg string, fields ...zapcore.Field)
	Error(msg string, fields ...zapcore.Field) error
	Panic(msg string, fields ...zapcore.Field)
	Fatal(msg string, fields ...zapcore.Field)
	Sync() error

	LogRequestStart(event string, requestID string, method string, url string, headers map[string][]string)
	LogRequestEnd(event string, method string, url string, statusCode int, duration time.Duration)
	LogError(event string, method string, url string, statusCode int, serverStatusMessage string, err error, rawResponse string)
	LogRetryAttempt(event string, method string, url string, attempt int, reason string, waitDuration time.Duration, err error)
	LogRateLimiting(event string, method string, url string, retryAfter string, waitDuration time.Duration)
}

// defaultLogger forwards to zap the entries at or above logLevel.
type defaultLogger struct {
	logger   *zap.Logger
	logLevel LogLevel
}

// New wraps zl. Entries below level are dropped before they reach zl.
func New(zl *zap.Logger, level LogLevel) Logger {
	return &defaultLogger{
		logger:   zl,
		logLevel: level,
	}
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return New(zap.NewNop(), LogLevelNone)
}

func (d *defaultLogger) SetLevel(level LogLevel) {
	d.logLevel = level
}

func (d *defaultLogger) GetLogLevel() LogLevel {
	return d.logLevel
}

// With returns a child logger adding fields to every entry. The child keeps the parent's level.
func (d *defaultLogger) With(fields ...zapcore.Field) Logger {
	return New(d.logger.With(fields...), d.logLevel)
}

func (d *defaultLogger) enabled(level LogLevel) bool {
	return d.logLevel <= level
}

func (d *defaultLogger) Debug(msg string, fields ...zapcore.Field) {
	if d.enabled(LogLevelDebug) {
		d.logger.Debug(msg, fields...)
	}
}

func (d *defaultLogger) Info(msg string, fields ...zapcore.Field) {
	if d.enabled(LogLevelInfo) {
		d.logger.Info(msg, fields...)
	}
}

func (d *defaultLogger) Warn(msg string, fields ...zapcore.Field) {
	if d.enabled(LogLevelWarn) {
		d.logger.Warn(msg, fields...)
	}
}

// Error logs msg and returns it as an error, so a call site can log and return in one statement.
// The error is returned even when the entry is filtered out.
func (d *defaultLogger) Error(msg string, fields ...zapcore.Field) error {
	if d.enabled(LogLevelError) {
		d.logger.Error(msg, fields...)
	}
	return errors.New(msg)
}

// Panic logs msg and panics. A Logger set above LogLevelPanic neither logs nor panics.
func (d *defaultLogger) Panic(msg string, fields ...zapcore.Field) {
	if d.enabled(LogLevelPanic) {
		d.logger.Panic(msg, fields...)
	}
}

// Fatal logs msg and exits the process with status 1.
func (d *defaultLogger) Fatal(msg string, fields ...zapcore.Field) {
	if d.enabled(LogLevelFatal) {
		d.logger.Fatal(msg, fields...)
	}
}

func (d *defaultLogger) Sync() error {
	return d.logger.Sync()
}
