package core

import "time"

// DefaultFrameRate is the target number of frames per second.
const DefaultFrameRate = 30

// pacer spaces frame ticks one period apart. A tick that fires late resets
// the schedule to that moment; missed ticks are dropped, never replayed.
type pacer struct {
	period time.Duration
	last   time.Time
}

func newPacer(rate int, start time.Time) *pacer {
	if rate <= 0 {
		rate = DefaultFrameRate
	}
	return &pacer{period: time.Second / time.Duration(rate), last: start}
}

// Wait returns how long until the next tick is due.
func (p *pacer) Wait(now time.Time) time.Duration {
	elapsed := now.Sub(p.last)
	if elapsed >= p.period {
		return 0
	}
	return p.period - elapsed
}

// Mark records that a tick fired at now.
func (p *pacer) Mark(now time.Time) {
	p.last = now
}
