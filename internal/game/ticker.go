package game

import (
	"context"
	"time"
)

// spinWindow is the tail of each interval spent busy-waiting instead of
// sleeping, for sub-millisecond precision.
const spinWindow = 200 * time.Microsecond

// Ticker paces the simulation loop at a fixed rate.
type Ticker struct {
	interval time.Duration
	next     time.Time
}

func NewTicker(hz int) *Ticker {
	if hz <= 0 {
		hz = 60
	}
	return &Ticker{interval: time.Second / time.Duration(hz)}
}

// Interval returns the target frame duration.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Wait blocks until the next tick or until ctx is done. A tick that is
// more than one interval late resynchronises instead of bursting to catch
// up.
func (t *Ticker) Wait(ctx context.Context) error {
	if t.next.IsZero() {
		t.next = time.Now().Add(t.interval)
	} else {
		t.next = t.next.Add(t.interval)
	}

	if remaining := time.Until(t.next); remaining > spinWindow {
		timer := time.NewTimer(remaining - spinWindow)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	for time.Until(t.next) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if late := -time.Until(t.next); late > t.interval {
		t.next = time.Now()
	}
	return nil
}
