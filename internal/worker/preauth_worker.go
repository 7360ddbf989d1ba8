package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/booking-gateway/internal/session"
)

// StartPreAuthWorker warms the service-account session at startup and keeps
// it warm on a fixed interval. Failures stay inside the store; the next
// request that needs a session will retry on demand.
func StartPreAuthWorker(ctx context.Context, sessions *session.Store, interval time.Duration, logger *zap.Logger) {
	if sessions == nil {
		return
	}
	if interval <= 0 {
		interval = 20 * time.Minute
	}

	go func() {
		sessions.PreAuthenticate(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Debug("pre-auth worker stopped")
				return
			case <-ticker.C:
				sessions.PreAuthenticate(ctx)
			}
		}
	}()
}
