package hal

// Counter is a free-running 16-bit hardware counter.
type Counter interface {
	Ticks() uint16
}

// CounterFunc is the func form of Counter.
type CounterFunc func() uint16

// Ticks implements Counter.
func (f CounterFunc) Ticks() uint16 {
	return f()
}

// Clock measures time on a Counter running at TicksNum/TicksDen ticks
// per microsecond.
type Clock struct {
	Counter  Counter
	TicksNum uint32
	TicksDen uint32
}

// Well-known counter rates.
var (
	// Rate1500KHz is 1.5 ticks per microsecond.
	Rate1500KHz = [2]uint32{3, 2}
	// Rate3MHz is 3 ticks per microsecond.
	Rate3MHz = [2]uint32{3, 1}
)

// NewClock creates a Clock with rate as {num, den} ticks per microsecond.
func NewClock(counter Counter, rate [2]uint32) *Clock {
	return &Clock{Counter: counter, TicksNum: rate[0], TicksDen: rate[1]}
}

// Elapsed computes ticks from start to end across 16-bit wraparound.
func Elapsed(start, end uint16) uint16 {
	return end - start
}

// Now reads the counter.
func (c *Clock) Now() uint16 {
	return c.Counter.Ticks()
}

// Since returns the ticks elapsed since start.
func (c *Clock) Since(start uint16) uint16 {
	return Elapsed(start, c.Counter.Ticks())
}

// TicksToMicros converts ticks into microseconds.
func (c *Clock) TicksToMicros(ticks uint16) uint32 {
	return uint32(ticks) * c.TicksDen / c.TicksNum
}

// MicrosToTicks converts microseconds into ticks, saturating at the
// counter period.
func (c *Clock) MicrosToTicks(us uint32) uint16 {
	ticks := uint64(us) * uint64(c.TicksNum) / uint64(c.TicksDen)
	if ticks > 0xffff {
		return 0xffff
	}
	return uint16(ticks)
}

// MaxDelayMicros is the longest delay measurable in one counter period.
func (c *Clock) MaxDelayMicros() uint32 {
	return c.TicksToMicros(0xffff)
}

// DelayMicros busy-waits us microseconds.
func (c *Clock) DelayMicros(us uint32) {
	// a wait longer than one period would alias, split it.
	max := c.MaxDelayMicros() / 2
	for us > max {
		c.spin(c.MicrosToTicks(max))
		us -= max
	}
	c.spin(c.MicrosToTicks(us))
}

// DelayMillis busy-waits ms milliseconds.
func (c *Clock) DelayMillis(ms uint32) {
	for ; ms > 0; ms-- {
		c.DelayMicros(1000)
	}
}

// WaitFor spins until Read returns level or timeout ticks elapse.
// It reports whether the level was observed.
func (c *Clock) WaitFor(line Line, level bool, timeout uint16) bool {
	start := c.Counter.Ticks()
	for line.Read() != level {
		if c.Since(start) > timeout {
			return false
		}
	}
	return true
}

func (c *Clock) spin(ticks uint16) {
	start := c.Counter.Ticks()
	for c.Since(start) < ticks {
	}
}
