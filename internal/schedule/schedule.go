package schedule

import (
	"context"
	"time"
)

// Every runs execute at each upcoming time of the cron expression until ctx is
// done. The expression is parsed before Every returns; runs happen on their
// own goroutine, one at a time. A run that overlaps the next tick delays it.
func Every(ctx context.Context, cron string, execute func(ctx context.Context)) error {
	expr, err := Parse(cron)
	if err != nil {
		return err
	}

	go func() {
		for {
			next := expr.Next(time.Now())
			if next.IsZero() {
				return
			}

			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				execute(ctx)
			}
		}
	}()
	return nil
}
