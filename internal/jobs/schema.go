package jobs

import (
	"context"
	"log"
	"time"
)

// StartSchemaRetry keeps applying the schema in the background until it
// succeeds once. It is used when the database was unreachable at startup.
// The returned channel is closed after the first success or when ctx ends.
func StartSchemaRetry(ctx context.Context, interval, timeout time.Duration, migrate func(context.Context) error) <-chan struct{} {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, timeout)
				err := migrate(tickCtx)
				cancel()
				if err != nil {
					log.Printf("schema retry job error: %v", err)
					continue
				}
				log.Printf("schema retry job applied schema")
				return
			}
		}
	}()
	return done
}
