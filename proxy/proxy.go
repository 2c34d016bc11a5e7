// proxy.go

package proxy

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/deploymenttheory/go-xpload/logger"
	"go.uber.org/zap"
)

// InitializeProxy routes httpClient through proxyURL. base is cloned so the shared transport is
// never modified; credentials embedded in proxyURL are sent as proxy basic auth.
func InitializeProxy(httpClient *http.Client, base *http.Transport, proxyURL string, log logger.Logger) error {
	if proxyURL == "" {
		return nil
	}

	parsedProxyURL, err := url.Parse(proxyURL)
	if err != nil {
		log.Error("Failed to parse proxy URL", zap.Error(err))
		return fmt.Errorf("parse proxy URL: %w", err)
	}
	if parsedProxyURL.Scheme == "" || parsedProxyURL.Host == "" {
		log.Error("Proxy URL must be absolute", zap.String("ProxyURL", proxyURL))
		return fmt.Errorf("proxy URL %q must include scheme and host", proxyURL)
	}

	transport := base.Clone()
	transport.Proxy = http.ProxyURL(parsedProxyURL)
	httpClient.Transport = transport

	log.Info("Proxy configured", zap.String("ProxyURL", parsedProxyURL.Redacted()))
	return nil
}
