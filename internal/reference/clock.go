package reference

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// suffixWidth keeps millisecond counters the same length until the year 2286.
const suffixWidth = 13

// ClockSource hands out the current Unix time in milliseconds, bumped past the last
// value it issued so two calls in the same millisecond never collide.
type ClockSource struct {
	now  func() time.Time
	last atomic.Int64
}

func NewClockSource() *ClockSource {
	return &ClockSource{now: time.Now}
}

func (c *ClockSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	for {
		last := c.last.Load()

		next := c.now().UnixMilli()
		if next <= last {
			next = last + 1
		}

		if c.last.CompareAndSwap(last, next) {
			return fmt.Sprintf("%0*d", suffixWidth, next), nil
		}
	}
}
