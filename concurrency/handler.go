// concurrency/handler.go
package concurrency

import (
	"sync"
	"time"

	"github.com/deploymenttheory/go-xpload/logger"
	"golang.org/x/time/rate"
)

// DefaultAcquisitionTimeout bounds how long a caller waits for a permit.
const DefaultAcquisitionTimeout = 10 * time.Second

// ConcurrencyHandler controls the number of concurrent HTTP requests and, optionally,
// the rate at which they are started.
type ConcurrencyHandler struct {
	sem                chan struct{}
	limiter            *rate.Limiter
	logger             logger.Logger
	acquisitionTimeout time.Duration
	Metrics            *ConcurrencyMetrics
}

// ConcurrencyMetrics captures metrics related to the client's interactions with the API.
type ConcurrencyMetrics struct {
	TotalRequests        int64         // Total number of permits granted
	TotalRetries         int64         // Total number of retry attempts
	TotalRateLimitErrors int64         // Total number of rate limit responses encountered
	PermitWaitTime       time.Duration // Total time spent waiting for permits
	Lock                 sync.Mutex    // Lock for all fields above
}

// MetricsSnapshot is a copy of ConcurrencyMetrics safe to read without locking.
type MetricsSnapshot struct {
	TotalRequests        int64
	TotalRetries         int64
	TotalRateLimitErrors int64
	PermitWaitTime       time.Duration
}

// NewConcurrencyHandler initializes a new ConcurrencyHandler allowing at most limit concurrent
// requests. When requestsPerSecond is positive, permits are also paced by a token bucket with a
// burst equal to limit.
func NewConcurrencyHandler(limit int, requestsPerSecond float64, log logger.Logger, metrics *ConcurrencyMetrics) *ConcurrencyHandler {
	if limit < 1 {
		limit = 1
	}
	if metrics == nil {
		metrics = &ConcurrencyMetrics{}
	}

	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), limit)
	}

	return &ConcurrencyHandler{
		sem:                make(chan struct{}, limit),
		limiter:            limiter,
		logger:             log,
		acquisitionTimeout: DefaultAcquisitionTimeout,
		Metrics:            metrics,
	}
}

// Capacity returns the maximum number of concurrent permits.
func (ch *ConcurrencyHandler) Capacity() int {
	return cap(ch.sem)
}

// InUse returns the number of permits currently held.
func (ch *ConcurrencyHandler) InUse() int {
	return len(ch.sem)
}

// RequestIDKey is the context key under which the uuid of the permit held by a
// request is stored.
type RequestIDKey struct{}
