package periph

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/robotalks/rover.go/pkg/hal"
)

// Counter emulates a free-running 16-bit counter on a monotonic clock.
type Counter struct {
	Clock clock.Clock
	// Rate is {num, den} ticks per microsecond.
	Rate [2]uint32

	origin time.Time
}

// NewCounter creates a Counter starting at zero.
func NewCounter(clk clock.Clock, rate [2]uint32) *Counter {
	if clk == nil {
		clk = clock.New()
	}
	return &Counter{Clock: clk, Rate: rate, origin: clk.Now()}
}

// Ticks implements hal.Counter.
func (c *Counter) Ticks() uint16 {
	ns := uint64(c.Clock.Since(c.origin).Nanoseconds())
	return uint16(ns * uint64(c.Rate[0]) / (uint64(c.Rate[1]) * 1000))
}

// HalClock wraps the Counter in a hal.Clock.
func (c *Counter) HalClock() *hal.Clock {
	return hal.NewClock(c, c.Rate)
}
