package httpclient

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/deploymenttheory/go-xpload/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// jsonIntegration is a minimal APIIntegration speaking JSON to domain.
type jsonIntegration struct {
	domain string
}

func (i jsonIntegration) Domain() string { return i.domain }

func (i jsonIntegration) SetRequestHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
}

func (i jsonIntegration) MarshalRequest(body any, method string, endpoint string) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	return json.Marshal(body)
}

func (i jsonIntegration) GetAuthMethodDescriptor() string { return "none" }

// newTestClient builds a client for domain whose logs are captured at debug level.
func newTestClient(t *testing.T, domain string, config ClientConfig) (*Client, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	config.Logger = logger.New(zap.New(core), logger.LogLevelDebug)
	if config.TotalRetryDuration == 0 {
		config.TotalRetryDuration = 10 * time.Second
	}

	client, err := BuildClient(config, jsonIntegration{domain: domain})
	require.NoError(t, err)
	return client, logs
}
