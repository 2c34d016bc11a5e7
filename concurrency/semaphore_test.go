package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deploymenttheory/go-xpload/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndRelease(t *testing.T) {
	ch := NewConcurrencyHandler(2, 0, logger.NewNop(), nil)

	ctx, requestID, err := ch.AcquireConcurrencyPermit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ch.InUse())

	fromCtx, ok := RequestIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, requestID, fromCtx)

	ch.ReleaseConcurrencyPermit(requestID)
	assert.Equal(t, 0, ch.InUse())
	assert.Equal(t, int64(1), ch.Snapshot().TotalRequests)
}

func TestAcquireTimesOutWhenExhausted(t *testing.T) {
	ch := NewConcurrencyHandler(1, 0, logger.NewNop(), nil)
	ch.acquisitionTimeout = 50 * time.Millisecond

	_, held, err := ch.AcquireConcurrencyPermit(context.Background())
	require.NoError(t, err)
	defer ch.ReleaseConcurrencyPermit(held)

	_, _, err = ch.AcquireConcurrencyPermit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, ch.InUse())
}

func TestAcquireHonoursCancelledContext(t *testing.T) {
	ch := NewConcurrencyHandler(1, 0, logger.NewNop(), nil)
	_, held, err := ch.AcquireConcurrencyPermit(context.Background())
	require.NoError(t, err)
	defer ch.ReleaseConcurrencyPermit(held)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = ch.AcquireConcurrencyPermit(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentRequestsAreBounded(t *testing.T) {
	const limit = 3
	ch := NewConcurrencyHandler(limit, 0, logger.NewNop(), nil)

	var inFlight, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, id, err := ch.AcquireConcurrencyPermit(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			defer ch.ReleaseConcurrencyPermit(id)

			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(limit))
	assert.Equal(t, int64(20), ch.Snapshot().TotalRequests)
}

func TestRateLimiterPacesPermits(t *testing.T) {
	ch := NewConcurrencyHandler(1, 20, logger.NewNop(), nil)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, id, err := ch.AcquireConcurrencyPermit(context.Background())
		require.NoError(t, err)
		ch.ReleaseConcurrencyPermit(id)
	}

	// burst of 1 at 20 rps: the 2nd and 3rd permits wait ~50ms each
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestMetricsCounters(t *testing.T) {
	ch := NewConcurrencyHandler(0, 0, logger.NewNop(), &ConcurrencyMetrics{})

	ch.RecordRetry()
	ch.RecordRetry()
	ch.RecordRateLimitError()

	snapshot := ch.Snapshot()
	assert.Equal(t, int64(2), snapshot.TotalRetries)
	assert.Equal(t, int64(1), snapshot.TotalRateLimitErrors)
	assert.Equal(t, 1, ch.Capacity(), "limits below one are raised to one")
}
