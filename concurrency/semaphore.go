// concurrency/semaphore.go
/* package provides utilities to manage concurrency control. The handler ensures no more than a
certain number of concurrent requests are sent to the payload database at the same time. This is
managed using a semaphore */
package concurrency

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AcquireConcurrencyPermit blocks until a permit is free, the acquisition timeout elapses or ctx is
// done. On success the returned context carries the permit's request ID under RequestIDKey and the
// caller must hand the same ID to ReleaseConcurrencyPermit.
//
// Example:
//
//	ctx, requestID, err := handler.AcquireConcurrencyPermit(ctx)
//	if err != nil {
//	    return err
//	}
//	defer handler.ReleaseConcurrencyPermit(requestID)
func (ch *ConcurrencyHandler) AcquireConcurrencyPermit(ctx context.Context) (context.Context, uuid.UUID, error) {
	log := ch.logger
	acquisitionStart := time.Now()
	requestID := uuid.New()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, ch.acquisitionTimeout)
	defer cancel()

	select {
	case ch.sem <- struct{}{}:
	case <-ctxWithTimeout.Done():
		log.Warn("Failed to acquire concurrency permit", zap.String("RequestID", requestID.String()), zap.Error(ctxWithTimeout.Err()))
		return ctx, requestID, fmt.Errorf("acquire concurrency permit: %w", ctxWithTimeout.Err())
	}

	if ch.limiter != nil {
		if err := ch.limiter.Wait(ctxWithTimeout); err != nil {
			<-ch.sem
			log.Warn("Rate limiter rejected request", zap.String("RequestID", requestID.String()), zap.Error(err))
			return ctx, requestID, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	acquisitionDuration := time.Since(acquisitionStart)
	ch.Metrics.Lock.Lock()
	ch.Metrics.PermitWaitTime += acquisitionDuration
	ch.Metrics.TotalRequests++
	ch.Metrics.Lock.Unlock()

	utilizedPermits := len(ch.sem)
	log.Debug("Acquired concurrency permit",
		zap.String("RequestID", requestID.String()),
		zap.Duration("AcquisitionTime", acquisitionDuration),
		zap.Int("UtilizedPermits", utilizedPermits),
		zap.Int("AvailablePermits", cap(ch.sem)-utilizedPermits),
	)

	return context.WithValue(ctx, RequestIDKey{}, requestID), requestID, nil
}

// ReleaseConcurrencyPermit returns a permit to the pool.
func (ch *ConcurrencyHandler) ReleaseConcurrencyPermit(requestID uuid.UUID) {
	<-ch.sem

	utilizedPermits := len(ch.sem)
	ch.logger.Debug("Released concurrency permit",
		zap.String("RequestID", requestID.String()),
		zap.Int("UtilizedPermits", utilizedPermits),
		zap.Int("AvailablePermits", cap(ch.sem)-utilizedPermits),
	)
}

// RequestIDFromContext returns the permit request ID stored by AcquireConcurrencyPermit.
func RequestIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(RequestIDKey{}).(uuid.UUID)
	return id, ok
}
