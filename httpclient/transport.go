// httpclient/transport.go
package httpclient

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/deploymenttheory/go-xpload/logger"
)

var (
	sharedTransportOnce sync.Once
	sharedTransport     *http.Transport

	transportsMu      sync.Mutex
	derivedTransports []*http.Transport

	loggersMu    sync.Mutex
	builtLoggers []logger.Logger

	sharedClientOnce sync.Once
	sharedClient     atomic.Pointer[Client]
)

// SharedTransport returns the process-wide transport. It is created on first use and reused by every
// client built in this process.
func SharedTransport() *http.Transport {
	sharedTransportOnce.Do(func() {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.MaxIdleConnsPerHost = DefaultMaxConcurrentRequests
		transport.IdleConnTimeout = 90 * time.Second
		sharedTransport = transport
	})
	return sharedTransport
}

// registerTransport records a transport derived from the shared one so Shutdown can release it.
func registerTransport(transport *http.Transport) {
	transportsMu.Lock()
	defer transportsMu.Unlock()
	derivedTransports = append(derivedTransports, transport)
}

// registerLogger records the logger of a built client so Shutdown can flush it.
func registerLogger(log logger.Logger) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	builtLoggers = append(builtLoggers, log)
}

// Shutdown releases the idle connections held by the shared transport and every transport derived
// from it, then flushes the loggers of every client built so far. It is meant to run once at process
// exit; clients keep working afterwards but have to dial again.
func Shutdown() {
	transportsMu.Lock()
	derived := derivedTransports
	derivedTransports = nil
	transportsMu.Unlock()

	for _, transport := range derived {
		transport.CloseIdleConnections()
	}
	SharedTransport().CloseIdleConnections()

	loggersMu.Lock()
	loggers := builtLoggers
	builtLoggers = nil
	loggersMu.Unlock()

	for _, log := range loggers {
		// Sync of a terminal stderr fails on some platforms; ignored.
		_ = log.Sync()
	}
}

// Shared returns the process-wide default client, built once with default configuration and no API
// integration. It logs to stderr.
func Shared() *Client {
	sharedClientOnce.Do(func() {
		config := ClientConfig{}
		SetDefaultValuesClientConfig(&config)
		config.Logger = logger.BuildLogger(logger.ParseLogLevelFromString(config.LogLevel), config.LogOutputFormat)

		client, err := BuildClient(config, nil)
		if err != nil {
			panic("httpclient: default configuration rejected: " + err.Error())
		}
		sharedClient.Store(client)
	})
	return sharedClient.Load()
}
