package hal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// stepCounter advances by step on every read.
type stepCounter struct {
	now  uint16
	step uint16
	read int
}

func (c *stepCounter) Ticks() uint16 {
	c.now += c.step
	c.read++
	return c.now
}

func TestElapsed(t *testing.T) {
	testCases := []struct {
		name       string
		start, end uint16
		expect     uint16
	}{
		{name: "forward", start: 100, end: 250, expect: 150},
		{name: "wraparound", start: 65530, end: 10, expect: 16},
		{name: "same", start: 42, end: 42, expect: 0},
		{name: "full period", start: 1, end: 0, expect: 0xffff},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, Elapsed(tc.start, tc.end))
		})
	}
}

func TestConversions(t *testing.T) {
	c := NewClock(&stepCounter{}, Rate1500KHz)
	require.Equal(t, uint32(10), c.TicksToMicros(15))
	require.Equal(t, uint16(15000), c.MicrosToTicks(10000))
	require.Equal(t, uint16(0xffff), c.MicrosToTicks(1000000))

	c = NewClock(&stepCounter{}, Rate3MHz)
	require.Equal(t, uint32(40), c.TicksToMicros(120))
	require.Equal(t, uint16(60), c.MicrosToTicks(20))
}

func TestWraparoundMicros(t *testing.T) {
	c := NewClock(&stepCounter{}, Rate1500KHz)
	require.Equal(t, uint32(10), c.TicksToMicros(Elapsed(65530, 9)))
}

func TestDelay(t *testing.T) {
	cnt := &stepCounter{now: 65000, step: 3}
	c := NewClock(cnt, Rate3MHz)
	c.DelayMicros(100)
	// 300 ticks in steps of 3 plus the start read.
	require.Equal(t, 101, cnt.read)
}

func TestLongDelaySplit(t *testing.T) {
	cnt := &stepCounter{step: 150}
	c := NewClock(cnt, Rate1500KHz)
	var total uint64
	start := cnt.now
	prev := start
	// 50ms is longer than one period at 1.5MHz.
	c.Counter = CounterFunc(func() uint16 {
		v := cnt.Ticks()
		total += uint64(Elapsed(prev, v))
		prev = v
		return v
	})
	c.DelayMicros(50000)
	require.True(t, total >= 75000, "total %d", total)
	require.True(t, total < 75000+8*150, "total %d", total)
}

type levelAfter struct {
	cnt   *stepCounter
	at    uint16
	level bool
}

func (l *levelAfter) Read() bool {
	if l.cnt.now >= l.at {
		return l.level
	}
	return !l.level
}

func TestWaitFor(t *testing.T) {
	cnt := &stepCounter{step: 1}
	c := NewClock(cnt, Rate3MHz)
	require.True(t, c.WaitFor(&levelAfter{cnt: cnt, at: 50, level: true}, true, 100))
	cnt.now = 0
	require.False(t, c.WaitFor(&levelAfter{cnt: cnt, at: 500, level: true}, true, 100))
}
