package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/cronexpr"
)

// Parse accepts the five field form, the six field form with a trailing year,
// and the seven field form that leads with seconds.
func Parse(cron string) (*cronexpr.Expression, error) {
	expr, err := cronexpr.Parse(cron)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", cron, err)
	}
	return expr, nil
}

func ValidateCron(cron string) error {
	_, err := Parse(cron)
	return err
}

// NextRunTimesAfter returns the next n run times after the given time.
func NextRunTimesAfter(cron string, after time.Time, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, errors.New("count must be greater than 0")
	}
	expr, err := Parse(cron)
	if err != nil {
		return nil, err
	}
	return expr.NextN(after, uint(n)), nil
}
