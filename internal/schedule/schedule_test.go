package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/glizzus/goonbot/internal/schedule"
)

func TestEveryRunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan struct{}, 10)
	// Seven fields: seconds first, so this fires every second.
	err := schedule.Every(ctx, "* * * * * * *", func(context.Context) {
		runs <- struct{}{}
	})
	if err != nil {
		t.Fatalf("Every returned error: %v", err)
	}

	select {
	case <-runs:
	case <-time.After(3 * time.Second):
		t.Fatal("expected at least one run within 3 seconds")
	}

	cancel()
	// Drain anything that raced the cancellation, then expect silence.
	time.Sleep(50 * time.Millisecond)
	for len(runs) > 0 {
		<-runs
	}
	select {
	case <-runs:
		t.Error("expected no runs after cancellation")
	case <-time.After(1500 * time.Millisecond):
	}
}

func TestEveryRejectsInvalidCron(t *testing.T) {
	err := schedule.Every(context.Background(), "every minute please", func(context.Context) {})
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}
