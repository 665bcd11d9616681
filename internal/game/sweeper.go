package game

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is used when StartSweeper gets a non-positive interval.
const DefaultSweepInterval = time.Minute

// StartSweeper runs a background goroutine that periodically times out
// abandoned sessions and evicts idle ones until ctx is cancelled.
func StartSweeper(ctx context.Context, c *Controller, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", interval, "idle_ttl", c.idleTTL)

		for {
			select {
			case <-ticker.C:
				timedOut, evicted := c.Sweep(ctx, c.now())
				if timedOut > 0 || evicted > 0 {
					slog.Info("Session sweeper pass completed",
						"timed_out", timedOut,
						"evicted", evicted,
						"remaining", c.Len(),
					)
				}
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
