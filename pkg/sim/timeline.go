// Package sim provides simulated vehicle hardware on a shared timeline.
package sim

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/robotalks/rover.go/pkg/hal"
)

// DefaultStep is how far the timeline advances on every counter read.
const DefaultStep = 250 * time.Nanosecond

// Timeline is the simulated time. Busy-waiting on a counter advances it
// by Step per read; when Wall is set it never lags behind the wall clock.
type Timeline struct {
	Wall clock.Clock
	Step time.Duration

	origin time.Time
	now    time.Duration
	lock   sync.Mutex
}

// NewTimeline creates a purely virtual timeline starting at 0.
func NewTimeline() *Timeline {
	return &Timeline{Step: DefaultStep}
}

// NewWallTimeline creates a timeline following the wall clock.
func NewWallTimeline(wall clock.Clock) *Timeline {
	return &Timeline{Wall: wall, Step: DefaultStep, origin: wall.Now()}
}

// Now returns the elapsed simulated time.
func (t *Timeline) Now() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.syncLocked()
}

// Advance moves the timeline forward.
func (t *Timeline) Advance(d time.Duration) time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.now += d
	return t.syncLocked()
}

func (t *Timeline) syncLocked() time.Duration {
	if t.Wall != nil {
		if wall := t.Wall.Since(t.origin); wall > t.now {
			t.now = wall
		}
	}
	return t.now
}

// Counter creates a 16-bit counter at rate {num, den} ticks per microsecond.
func (t *Timeline) Counter(rate [2]uint32) hal.Counter {
	num, den := uint64(rate[0]), uint64(rate[1])
	return hal.CounterFunc(func() uint16 {
		now := t.Advance(t.Step)
		return uint16(uint64(now) * num / (den * 1000))
	})
}

// Clock creates a hal.Clock on the timeline.
func (t *Timeline) Clock(rate [2]uint32) *hal.Clock {
	return hal.NewClock(t.Counter(rate), rate)
}
