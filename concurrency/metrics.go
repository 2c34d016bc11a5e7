// concurrency/metrics.go
package concurrency

// RecordRetry counts one retry attempt.
func (ch *ConcurrencyHandler) RecordRetry() {
	ch.Metrics.Lock.Lock()
	ch.Metrics.TotalRetries++
	ch.Metrics.Lock.Unlock()
}

// RecordRateLimitError counts one rate limited response.
func (ch *ConcurrencyHandler) RecordRateLimitError() {
	ch.Metrics.Lock.Lock()
	ch.Metrics.TotalRateLimitErrors++
	ch.Metrics.Lock.Unlock()
}

// Snapshot returns a copy of the current metrics.
func (ch *ConcurrencyHandler) Snapshot() MetricsSnapshot {
	ch.Metrics.Lock.Lock()
	defer ch.Metrics.Lock.Unlock()

	return MetricsSnapshot{
		TotalRequests:        ch.Metrics.TotalRequests,
		TotalRetries:         ch.Metrics.TotalRetries,
		TotalRateLimitErrors: ch.Metrics.TotalRateLimitErrors,
		PermitWaitTime:       ch.Metrics.PermitWaitTime,
	}
}
