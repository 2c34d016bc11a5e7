// loggerconfig.go
package logger

import (
	"os"

	"github.com/deploymenttheory/go-xpload/version"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogOutputJSON    = "json"
	LogOutputConsole = "console"

	// DefaultOutputPath is the diagnostic stream. Standard output is left to callers.
	DefaultOutputPath = "stderr"
)

// BuildLogger creates and returns a new zap-backed Logger writing to outputPaths
// (stderr when none are given). It uses ISO8601 timestamps under the "timestamp" key and
// wraps the core so the 'pid' and 'application' fields appear at the end of each entry.
// The function panics if the logger cannot be initialized.
func BuildLogger(logLevel LogLevel, encoding string, outputPaths ...string) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeDuration = zapcore.StringDurationEncoder

	if encoding != LogOutputConsole {
		encoding = LogOutputJSON
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	if len(outputPaths) == 0 {
		outputPaths = []string{DefaultOutputPath}
	}

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(convertToZapLevel(logLevel)),
		Development:       false,
		Encoding:          encoding,
		DisableCaller:     true,
		DisableStacktrace: true,
		EncoderConfig:     encoderCfg,
		OutputPaths:       outputPaths,
		ErrorOutputPaths:  []string{"stderr"}, // zap's internal errors only
	}

	logger := zap.Must(config.Build())

	wrappedCore := &customCore{
		Core: logger.Core(),
		trailing: []zapcore.Field{
			zap.Int("pid", os.Getpid()),
			zap.String("application", version.GetAppName()),
		},
	}
	return &defaultLogger{
		logger:   zap.New(wrappedCore),
		logLevel: logLevel,
	}
}

// convertToZapLevel converts the custom LogLevel to a zapcore.Level
func convertToZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelDebug:
		return zap.DebugLevel
	case LogLevelInfo:
		return zap.InfoLevel
	case LogLevelWarn:
		return zap.WarnLevel
	case LogLevelError:
		return zap.ErrorLevel
	case LogLevelDPanic:
		return zap.DPanicLevel
	case LogLevelPanic:
		return zap.PanicLevel
	case LogLevelFatal:
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}
