package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchemaRetryStopsAfterSuccess(t *testing.T) {
	var calls atomic.Int32
	migrate := func(context.Context) error {
		if calls.Add(1) < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	done := StartSchemaRetry(context.Background(), time.Millisecond, time.Second, migrate)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("job did not finish")
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestSchemaRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := StartSchemaRetry(ctx, time.Hour, time.Second, func(context.Context) error { return nil })
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("job ignored cancellation")
	}
}
