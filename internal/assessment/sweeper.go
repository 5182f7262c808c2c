package assessment

import (
	"context"
	"log"
	"time"
)

// DefaultSweepInterval is how often idle sessions are evicted.
const DefaultSweepInterval = time.Hour

// RunSweeper evicts expired sessions every interval until ctx is done.
func RunSweeper(ctx context.Context, store *Store, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if cleaned := store.SweepExpired(); cleaned > 0 {
				log.Printf("[store] cleaned up %d expired sessions", cleaned)
			}
		}
	}
}
