// config/env.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/deploymenttheory/go-xpload/httpclient"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by LoadClientConfig.
const EnvPrefix = "XPLOAD"

// LoadEnvFiles loads .env files into the environment without overriding variables already set:
// only ENV_FILE when it is set, otherwise .env.local and then .env. Missing files are ignored.
func LoadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, envFile := range []string{".env.local", ".env"} {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return nil
}

// LoadClientConfig builds the HTTP client configuration from XPLOAD_* environment variables, e.g.
// XPLOAD_LOG_LEVEL=debug or XPLOAD_TIMEOUT=10s. Unset variables keep the httpclient defaults.
func LoadClientConfig() (httpclient.ClientConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("log_level", httpclient.DefaultLogLevelString)
	v.SetDefault("log_format", httpclient.DefaultLogOutputFormatString)
	v.SetDefault("timeout", httpclient.DefaultCustomTimeout)
	v.SetDefault("max_retry_attempts", httpclient.DefaultMaxRetryAttempts)
	v.SetDefault("total_retry_duration", httpclient.DefaultTotalRetryDuration)
	v.SetDefault("max_concurrent_requests", httpclient.DefaultMaxConcurrentRequests)
	v.SetDefault("requests_per_second", httpclient.DefaultRequestsPerSecond)
	v.SetDefault("follow_redirects", httpclient.DefaultFollowRedirects)
	v.SetDefault("max_redirects", httpclient.DefaultMaxRedirects)
	v.SetDefault("cookie_jar", false)
	v.SetDefault("proxy_url", "")
	v.SetDefault("hide_sensitive_data", true)

	logLevel, err := NormalizeLogLevel(v.GetString("log_level"))
	if err != nil {
		return httpclient.ClientConfig{}, err
	}

	return httpclient.ClientConfig{
		LogLevel:              logLevel,
		LogOutputFormat:       strings.ToLower(v.GetString("log_format")),
		HideSensitiveData:     v.GetBool("hide_sensitive_data"),
		CookieJarEnabled:      v.GetBool("cookie_jar"),
		ProxyURL:              v.GetString("proxy_url"),
		CustomTimeout:         v.GetDuration("timeout"),
		FollowRedirects:       v.GetBool("follow_redirects"),
		MaxRedirects:          v.GetInt("max_redirects"),
		MaxRetryAttempts:      v.GetInt("max_retry_attempts"),
		TotalRetryDuration:    v.GetDuration("total_retry_duration"),
		MaxConcurrentRequests: v.GetInt("max_concurrent_requests"),
		RequestsPerSecond:     v.GetFloat64("requests_per_second"),
	}, nil
}

var shortLogLevels = map[string]string{
	"debug":  "LogLevelDebug",
	"info":   "LogLevelInfo",
	"warn":   "LogLevelWarn",
	"error":  "LogLevelError",
	"dpanic": "LogLevelDPanic",
	"panic":  "LogLevelPanic",
	"fatal":  "LogLevelFatal",
}

// NormalizeLogLevel accepts either a LogLevel* name or its short form ("debug", "warn", ...) and
// returns the LogLevel* name.
func NormalizeLogLevel(level string) (string, error) {
	for short, full := range shortLogLevels {
		if strings.EqualFold(level, short) || strings.EqualFold(level, full) {
			return full, nil
		}
	}
	return "", fmt.Errorf("invalid log level: %q", level)
}
