package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/drafty/internal/actions"
	"github.com/five82/drafty/internal/demo"
)

// maxBackoff caps the delay between ticks while dispatches keep failing.
const maxBackoff = 30 * time.Second

// Dispatcher is the part of the store the ticker needs.
type Dispatcher interface {
	Dispatch(actions.Action) error
}

// StartTicker launches a background goroutine that dispatches clock__tick
// with an RFC 3339 timestamp every interval. It returns immediately; a
// non-positive interval disables the ticker. Failed dispatches back off
// exponentially up to maxBackoff.
func StartTicker(ctx context.Context, store Dispatcher, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-timer.C:
				if err := tick(store, now); err != nil {
					failures++
					logger.Warn("app: tick failed", "failures", failures, "error", err)
				} else {
					failures = 0
				}
				timer.Reset(calculateBackoff(failures, interval))
			}
		}
	}()
}

func tick(store Dispatcher, now time.Time) error {
	return store.Dispatch(actions.Action{
		Type:    actions.Type(demo.Clock, "tick"),
		Payload: now.UTC().Format(time.RFC3339),
	})
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
