// httpclient/request.go
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deploymenttheory/go-xpload/ratehandler"
	"github.com/deploymenttheory/go-xpload/response"
	"github.com/deploymenttheory/go-xpload/status"
	"github.com/deploymenttheory/go-xpload/version"
	"go.uber.org/zap"
)

// DoRequest builds a request for endpoint on the integration's domain, sends it and decodes a
// successful response into out (out may be nil). Idempotent methods are retried on transient errors
// and rate limiting with exponential backoff, bounded by MaxRetryAttempts and TotalRetryDuration.
// POST and PATCH are sent exactly once. Error responses, and redirects the client did not follow,
// are returned as *response.APIError.
//
// The returned response has already been read and closed; it is provided for its status and headers.
//
// Example:
//
//	var tags []payloaddb.Entry
//	if _, err := client.DoRequest(ctx, http.MethodGet, "/gt", nil, &tags); err != nil {
//	    return err
//	}
func (c *Client) DoRequest(ctx context.Context, method, endpoint string, body, out any) (*http.Response, error) {
	if c.Integration == nil {
		return nil, ErrNoIntegration
	}

	switch {
	case IsIdempotentHTTPMethod(method):
		return c.executeRequestWithRetries(ctx, method, endpoint, body, out)
	case IsNonIdempotentHTTPMethod(method):
		return c.executeRequest(ctx, method, endpoint, body, out)
	default:
		c.Logger.Warn("HTTP method not supported", zap.String("method", method))
		return nil, fmt.Errorf("%w: %s", ErrMethodNotSupported, method)
	}
}

func (c *Client) executeRequestWithRetries(ctx context.Context, method, endpoint string, body, out any) (*http.Response, error) {
	log := c.Logger
	totalRetryDeadline := time.Now().Add(c.config.TotalRetryDuration)
	retryCount := 0

	log.Debug("Executing request with retries", zap.String("method", method), zap.String("endpoint", endpoint))

	for {
		resp, err := c.doRequest(ctx, method, endpoint, body)
		if err != nil {
			return nil, err
		}

		if status.IsSuccessStatusCode(resp.StatusCode) {
			return resp, c.handleSuccess(resp, out)
		}

		var waitDuration time.Duration
		var reason string
		switch {
		case status.IsRateLimitError(resp):
			c.Concurrency.RecordRateLimitError()
			waitDuration = ratehandler.ParseRateLimitHeaders(resp, log)
			if waitDuration <= 0 {
				waitDuration = ratehandler.CalculateBackoff(retryCount)
			}
			reason = "rate limited"
			log.LogRateLimiting("rate_limited", method, endpoint, resp.Header.Get("Retry-After"), waitDuration)
		case status.IsTransientError(resp) || status.IsRetryableStatusCode(resp.StatusCode):
			waitDuration = ratehandler.CalculateBackoff(retryCount)
			reason = status.TranslateStatusCode(resp)
		default:
			log.Warn("Non-retryable error received", zap.Int("status_code", resp.StatusCode), zap.String("status_message", status.TranslateStatusCode(resp)))
			return resp, c.handleError(resp)
		}

		retryCount++
		if retryCount > c.config.MaxRetryAttempts || time.Now().Add(waitDuration).After(totalRetryDeadline) {
			log.Warn("Retry budget exhausted", zap.String("method", method), zap.String("endpoint", endpoint), zap.Int("attempts", retryCount))
			return resp, c.handleError(resp)
		}

		drainAndClose(resp)
		c.Concurrency.RecordRetry()
		log.LogRetryAttempt("retry_attempt", method, endpoint, retryCount, reason, waitDuration, nil)

		if err := sleepContext(ctx, waitDuration); err != nil {
			return nil, err
		}
	}
}

func (c *Client) executeRequest(ctx context.Context, method, endpoint string, body, out any) (*http.Response, error) {
	c.Logger.Debug("Executing request without retries", zap.String("method", method), zap.String("endpoint", endpoint))

	resp, err := c.doRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}

	if status.IsSuccessStatusCode(resp.StatusCode) {
		return resp, c.handleSuccess(resp, out)
	}
	return resp, c.handleError(resp)
}

// doRequest marshals body through the integration and sends a single request.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any) (*http.Response, error) {
	requestData, err := c.Integration.MarshalRequest(body, method, endpoint)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var bodyReader io.Reader
	if len(requestData) > 0 {
		bodyReader = bytes.NewReader(requestData)
	}

	url := joinURL(c.Integration.Domain(), endpoint)
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", version.GetUserAgentHeader())
	c.Integration.SetRequestHeaders(req)

	resp, err := c.Do(req)
	if err != nil {
		c.Logger.Error("Failed to send request", zap.String("method", method), zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		c.Logger.Warn("Redirect response received", zap.Int("status_code", resp.StatusCode), zap.String("location", resp.Header.Get("Location")))
	}
	return resp, nil
}

func (c *Client) handleSuccess(resp *http.Response, out any) error {
	defer resp.Body.Close()
	return response.HandleAPISuccessResponse(resp, out, c.Logger)
}

func (c *Client) handleError(resp *http.Response) error {
	defer resp.Body.Close()
	return response.HandleAPIErrorResponse(resp, c.Logger)
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// joinURL appends endpoint to domain with exactly one slash between them.
func joinURL(domain, endpoint string) string {
	if endpoint == "" {
		return domain
	}
	return strings.TrimRight(domain, "/") + "/" + strings.TrimLeft(endpoint, "/")
}
