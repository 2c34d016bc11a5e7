// httpclient/client.go
/* The `httpclient` package provides the configurable HTTP client used to talk to the payload database and
to post to fixed endpoints. Every client shares one process-wide transport, bounds in-flight requests with
a concurrency handler, retries idempotent requests with backoff and logs each request through the logger
package. */
package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/deploymenttheory/go-xpload/concurrency"
	"github.com/deploymenttheory/go-xpload/cookiejar"
	"github.com/deploymenttheory/go-xpload/headers"
	"github.com/deploymenttheory/go-xpload/logger"
	"github.com/deploymenttheory/go-xpload/proxy"
	"github.com/deploymenttheory/go-xpload/redirecthandler"
	"go.uber.org/zap"
)

// Client wraps an http.Client with logging, concurrency control and an optional API integration.
type Client struct {
	config    ClientConfig
	http      *http.Client
	redirects *redirecthandler.RedirectHandler

	Logger      logger.Logger
	Concurrency *concurrency.ConcurrencyHandler
	Integration APIIntegration
}

// BuildClient creates a new HTTP client with the provided configuration. Unset configuration values
// are populated with defaults before validation. integration may be nil for clients that only send
// prepared requests through Do.
func BuildClient(config ClientConfig, integration APIIntegration) (*Client, error) {
	SetDefaultValuesClientConfig(&config)
	if err := validateClientConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := config.Logger
	if log == nil {
		parsedLogLevel := logger.ParseLogLevelFromString(config.LogLevel)
		log = logger.BuildLogger(parsedLogLevel, config.LogOutputFormat, config.LogOutputPaths...)
	}

	registerLogger(log)

	httpClient := &http.Client{
		Timeout:   config.CustomTimeout,
		Transport: SharedTransport(),
	}

	if err := cookiejar.SetupCookieJar(httpClient, config.CookieJarEnabled, log); err != nil {
		return nil, err
	}

	if err := proxy.InitializeProxy(httpClient, SharedTransport(), config.ProxyURL, log); err != nil {
		return nil, err
	}
	if transport, ok := httpClient.Transport.(*http.Transport); ok && transport != SharedTransport() {
		registerTransport(transport)
	}

	redirects, err := redirecthandler.SetupRedirectHandler(httpClient, config.FollowRedirects, config.MaxRedirects, log)
	if err != nil {
		log.Error("Failed to set up redirect handler", zap.Error(err))
		return nil, err
	}

	client := &Client{
		config:      config,
		http:        httpClient,
		redirects:   redirects,
		Logger:      log,
		Integration: integration,
		Concurrency: concurrency.NewConcurrencyHandler(
			config.MaxConcurrentRequests,
			config.RequestsPerSecond,
			log,
			&concurrency.ConcurrencyMetrics{},
		),
	}

	authMethod := "none"
	if integration != nil {
		authMethod = integration.GetAuthMethodDescriptor()
	}

	log.Debug("New API client initialized",
		zap.String("Authentication Method", authMethod),
		zap.String("Logging Level", config.LogLevel),
		zap.String("Log Encoding Format", config.LogOutputFormat),
		zap.Bool("Hide Sensitive Data In Logs", config.HideSensitiveData),
		zap.Bool("Cookie Jar Enabled", config.CookieJarEnabled),
		zap.Bool("Proxy Configured", config.ProxyURL != ""),
		zap.Int("Max Retry Attempts", config.MaxRetryAttempts),
		zap.Int("Max Concurrent Requests", config.MaxConcurrentRequests),
		zap.Float64("Requests Per Second", config.RequestsPerSecond),
		zap.Bool("Follow Redirects", config.FollowRedirects),
		zap.Int("Max Redirects", config.MaxRedirects),
		zap.Duration("Total Retry Duration", config.TotalRetryDuration),
		zap.Duration("Custom Timeout", config.CustomTimeout),
	)

	return client, nil
}

// Config returns the effective configuration of the client.
func (c *Client) Config() ClientConfig {
	return c.config
}

// Do sends one prepared request under a concurrency permit. No retries are attempted and transport
// failures are returned to the caller unlogged at error level. The caller closes the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	log := c.Logger

	ctx, requestID, err := c.Concurrency.AcquireConcurrencyPermit(req.Context())
	if err != nil {
		return nil, err
	}
	defer c.Concurrency.ReleaseConcurrencyPermit(requestID)

	req = req.WithContext(ctx)
	if c.redirects != nil {
		c.redirects.ResolvePermanentRedirect(req)
	}

	headers.NewHeaderHandler(req, log).LogHeaders(c.config.HideSensitiveData)
	log.LogRequestStart("request_start", requestID.String(), req.Method, req.URL.String(), headers.RedactHeaders(req.Header, c.config.HideSensitiveData))

	startTime := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("Request failed", zap.String("method", req.Method), zap.String("url", req.URL.String()), zap.Error(err))
		return nil, err
	}

	log.LogRequestEnd("request_end", req.Method, req.URL.String(), resp.StatusCode, time.Since(startTime))
	headers.CheckDeprecationHeader(resp, log)
	cookiejar.LogResponseCookies(resp, log)

	return resp, nil
}
