// Package animation models the landing page motion: one-shot count-up
// counters, viewport-triggered reveals, scroll driven navigation and
// parallax, and the trailing-edge resize debounce.
package animation

import (
	"context"
	"math"
	"time"

	"github.com/eightweeks/fujimi-forecast/pkg/mathutil"
)

// CountUp animates a displayed integer from 0 to End over Duration. Progress
// is taken from wall-clock time, so uneven frame timing does not change the
// curve. A CountUp runs once; start a new one to replay.
type CountUp struct {
	End      int
	Duration time.Duration

	start time.Time
	last  int
	done  bool
}

// NewCountUp starts a count-up at start.
func NewCountUp(end int, duration time.Duration, start time.Time) *CountUp {
	return &CountUp{End: end, Duration: duration, start: start}
}

// Progress returns the elapsed fraction of the duration, clamped to [0, 1].
func (c *CountUp) Progress(now time.Time) float64 {
	if c.Duration <= 0 {
		return 1
	}
	return mathutil.Clamp(float64(now.Sub(c.start))/float64(c.Duration), 0, 1)
}

// Value returns the integer to display at now. Values never go backwards,
// even if now is earlier than a previously rendered frame.
func (c *CountUp) Value(now time.Time) int {
	if c.done {
		return c.End
	}

	progress := c.Progress(now)
	if progress >= 1 {
		c.done = true
		c.last = c.End
		return c.End
	}

	v := int(math.Floor(float64(c.End) * progress))
	if v > c.last {
		c.last = v
	}
	return c.last
}

// Done reports whether the animation reached its end value.
func (c *CountUp) Done() bool {
	return c.done
}

// Run renders one value per frame until the animation completes, the frame
// channel closes, or ctx is cancelled.
func (c *CountUp) Run(ctx context.Context, frames <-chan time.Time, render func(int)) error {
	for !c.done {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-frames:
			if !ok {
				return nil
			}
			render(c.Value(now))
		}
	}
	return nil
}
