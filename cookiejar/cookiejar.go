// cookiejar/cookiejar.go

/* The cookiejar package provides cookie handling for the HTTP client: an optional in-memory cookie
jar and debug logging of the cookies a server sets, with session values redacted. */

package cookiejar

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/deploymenttheory/go-xpload/logger"
	"go.uber.org/zap"
)

// SetupCookieJar initializes the HTTP client with a cookie jar if enabled in the configuration.
func SetupCookieJar(client *http.Client, enableCookieJar bool, log logger.Logger) error {
	if !enableCookieJar {
		return nil
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Error("Failed to create cookie jar", zap.Error(err))
		return fmt.Errorf("setupCookieJar failed: %w", err)
	}
	client.Jar = jar
	log.Debug("Cookie jar enabled")
	return nil
}

// RedactSensitiveCookies returns copies of cookies with the values of session cookies replaced.
func RedactSensitiveCookies(cookies []*http.Cookie) []*http.Cookie {
	redacted := make([]*http.Cookie, 0, len(cookies))
	for _, cookie := range cookies {
		c := *cookie
		if strings.Contains(strings.ToLower(c.Name), "session") {
			c.Value = "REDACTED"
		}
		redacted = append(redacted, &c)
	}
	return redacted
}

// LogResponseCookies logs the cookies set by resp at debug level.
func LogResponseCookies(resp *http.Response, log logger.Logger) {
	if log.GetLogLevel() > logger.LogLevelDebug {
		return
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return
	}

	names := make([]string, 0, len(cookies))
	for _, cookie := range RedactSensitiveCookies(cookies) {
		names = append(names, cookie.Name+"="+cookie.Value)
	}
	log.Debug("Cookies received", zap.Strings("Cookies", names))
}
