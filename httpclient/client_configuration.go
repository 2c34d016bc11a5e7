// httpclient/client_configuration.go
package httpclient

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/deploymenttheory/go-xpload/logger"
)

const (
	DefaultLogLevelString        = "LogLevelInfo"
	DefaultLogOutputFormatString = logger.LogOutputConsole
	DefaultMaxRetryAttempts      = 3
	DefaultMaxConcurrentRequests = 5
	DefaultRequestsPerSecond     = 0 // unlimited
	DefaultCustomTimeout         = 30 * time.Second
	DefaultTotalRetryDuration    = 1 * time.Minute
	DefaultFollowRedirects       = false
	DefaultMaxRedirects          = 5
)

// ClientConfig holds the options used by BuildClient.
type ClientConfig struct {
	// Log
	LogLevel          string        // One of the LogLevel* names, e.g. "LogLevelDebug"
	LogOutputFormat   string        // "json" or "console"
	LogOutputPaths    []string      // zap output paths, stderr when empty
	HideSensitiveData bool          // Redact Authorization style headers in logs
	Logger            logger.Logger // Used as is when set; the log options above are then ignored

	// Transport
	CookieJarEnabled bool
	ProxyURL         string
	CustomTimeout    time.Duration
	FollowRedirects  bool
	MaxRedirects     int

	// Retries and concurrency
	MaxRetryAttempts      int
	TotalRetryDuration    time.Duration
	MaxConcurrentRequests int
	RequestsPerSecond     float64
}

var validLogLevels = []string{
	"LogLevelDebug",
	"LogLevelInfo",
	"LogLevelWarn",
	"LogLevelError",
	"LogLevelDPanic",
	"LogLevelPanic",
	"LogLevelFatal",
}

var validLogFormats = []string{
	logger.LogOutputJSON,
	logger.LogOutputConsole,
}

// SetDefaultValuesClientConfig fills every unset field of config with its default.
func SetDefaultValuesClientConfig(config *ClientConfig) {
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevelString
	}
	if config.LogOutputFormat == "" {
		config.LogOutputFormat = DefaultLogOutputFormatString
	}
	if config.MaxRetryAttempts == 0 {
		config.MaxRetryAttempts = DefaultMaxRetryAttempts
	}
	if config.MaxConcurrentRequests == 0 {
		config.MaxConcurrentRequests = DefaultMaxConcurrentRequests
	}
	if config.CustomTimeout == 0 {
		config.CustomTimeout = DefaultCustomTimeout
	}
	if config.TotalRetryDuration == 0 {
		config.TotalRetryDuration = DefaultTotalRetryDuration
	}
	if config.MaxRedirects == 0 {
		config.MaxRedirects = DefaultMaxRedirects
	}
}

func validateClientConfig(config ClientConfig) error {
	if config.Logger == nil {
		if !slices.Contains(validLogLevels, config.LogLevel) {
			return fmt.Errorf("invalid log level: %s", config.LogLevel)
		}
		if !slices.Contains(validLogFormats, config.LogOutputFormat) {
			return fmt.Errorf("invalid log output format: %s", config.LogOutputFormat)
		}
	}

	if config.MaxRetryAttempts < 0 {
		return errors.New("max retry attempts cannot be less than 0")
	}
	if config.MaxConcurrentRequests < 1 {
		return errors.New("maximum concurrent requests cannot be less than 1")
	}
	if config.RequestsPerSecond < 0 {
		return errors.New("requests per second cannot be less than 0")
	}
	if config.CustomTimeout < 0 {
		return errors.New("timeout cannot be less than 0 seconds")
	}
	if config.TotalRetryDuration < 0 {
		return errors.New("total retry duration cannot be less than 0 seconds")
	}
	if config.FollowRedirects && config.MaxRedirects < 1 {
		return errors.New("max redirects cannot be less than 1")
	}
	return nil
}
