package app

import (
	"context"
	"time"

	"github.com/five82/palette/internal/logging"
)

// Loader refreshes the local view from the color service.
type Loader interface {
	Load(ctx context.Context) error
}

// StartPoller launches a background goroutine that reloads the store at a
// fixed cadence until ctx is done. The first reload happens one interval
// after the call. A non-positive interval disables polling and StartPoller
// reports false.
func StartPoller(ctx context.Context, store Loader, interval time.Duration) bool {
	if interval <= 0 {
		logging.Info(logging.CatStore, "background refresh disabled")
		return false
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			// Failures already reach the user through the store's notifier.
			if err := store.Load(ctx); err != nil {
				logging.Debug(logging.CatStore, "background refresh failed", "error", err)
			}
		}
	}()
	return true
}
