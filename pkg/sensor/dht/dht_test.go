package dht

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover.go/pkg/hal"
	"github.com/robotalks/rover.go/pkg/sim"
)

func TestDecode(t *testing.T) {
	testCases := []struct {
		name   string
		buf    [5]byte
		expect Sample
	}{
		{
			name:   "valid",
			buf:    [5]byte{45, 0, 23, 0, 68},
			expect: Sample{TemperatureCenti: 2300, HumidityCenti: 4500, Status: OK},
		},
		{
			name:   "checksum mismatch",
			buf:    [5]byte{45, 0, 23, 0, 67},
			expect: Sample{TemperatureCenti: 2300, HumidityCenti: 4500, Status: BadCRC},
		},
		{
			name:   "fractions",
			buf:    [5]byte{61, 5, 19, 8, 93},
			expect: Sample{TemperatureCenti: 1908, HumidityCenti: 6105, Status: OK},
		},
		{
			name:   "checksum wraps",
			buf:    [5]byte{200, 0, 60, 0, 4},
			expect: Sample{TemperatureCenti: 6000, HumidityCenti: 20000, Status: OK},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, Decode(tc.buf))
		})
	}
}

func TestErrorCodeString(t *testing.T) {
	names := map[ErrorCode]string{
		OK:            "OK",
		NoPullUp:      "NO_PULLUP",
		NoAck0:        "NO_ACK_0",
		NoAck1:        "NO_ACK_1",
		NoData0:       "NO_DATA_0",
		NoData1:       "NO_DATA_1",
		BadCRC:        "BAD_CRC",
		ErrorCode(42): "UNKNOWN",
	}
	for code, name := range names {
		require.Equal(t, name, code.String())
	}
}

func TestFormatCenti(t *testing.T) {
	require.Equal(t, "23.00", FormatCenti(2300))
	require.Equal(t, "19.08", FormatCenti(1908))
	require.Equal(t, "-0.50", FormatCenti(-50))
}

type dhtTestCtx struct {
	tl     *sim.Timeline
	dev    *sim.DHT11
	irq    *sim.IRQRecorder
	sensor *Sensor
}

func newDHTTestCtx() *dhtTestCtx {
	c := &dhtTestCtx{tl: sim.NewTimeline(), irq: &sim.IRQRecorder{}}
	c.dev = sim.NewDHT11(c.tl, 45, 0, 23, 0)
	c.sensor = New(c.tl.Clock(hal.Rate3MHz), c.dev, c.irq)
	return c
}

func TestReadProtocol(t *testing.T) {
	c := newDHTTestCtx()
	smp := c.sensor.Read()
	require.Equal(t, Sample{TemperatureCenti: 2300, HumidityCenti: 4500, Status: OK}, smp)
	require.Equal(t, 1, c.dev.Transfers())
	require.Equal(t, 1, c.irq.Disabled())
	require.False(t, c.irq.Masked())

	c.dev.Set(61, 5, 19, 8)
	c.tl.Advance(MinInterval)
	smp = c.sensor.Read()
	require.Equal(t, Sample{TemperatureCenti: 1908, HumidityCenti: 6105, Status: OK}, smp)
}

func TestReadPullUpCheck(t *testing.T) {
	c := newDHTTestCtx()
	c.sensor.CheckPullUp = true
	require.Equal(t, OK, c.sensor.Read().Status)
}

func TestReadBadCRC(t *testing.T) {
	c := newDHTTestCtx()
	c.dev.Data[4]--
	require.Equal(t, Sample{Status: BadCRC}, c.sensor.Read())

	c.sensor.Policy = ReportOnBadCRC
	c.tl.Advance(MinInterval)
	require.Equal(t, Sample{TemperatureCenti: 2300, HumidityCenti: 4500, Status: OK}, c.sensor.Read())
}

func TestReadFailures(t *testing.T) {
	testCases := []struct {
		name     string
		fault    sim.DHTFault
		bit      int
		pullUp   bool
		expected ErrorCode
	}{
		{name: "no pull-up checked", fault: sim.DHTNoPullUp, pullUp: true, expected: NoPullUp},
		{name: "no pull-up unchecked", fault: sim.DHTNoPullUp, expected: NoAck1},
		{name: "silent", fault: sim.DHTSilent, expected: NoAck0},
		{name: "ack stuck low", fault: sim.DHTAckStuckLow, expected: NoAck1},
		{name: "ack stuck high", fault: sim.DHTAckStuckHigh, expected: NoAck0},
		{name: "data stuck low", fault: sim.DHTDataStuckLow, bit: 0, expected: NoData0},
		{name: "data stuck low late", fault: sim.DHTDataStuckLow, bit: 39, expected: NoData0},
		{name: "data stuck high", fault: sim.DHTDataStuckHigh, bit: 17, expected: NoData1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newDHTTestCtx()
			c.dev.Fault, c.dev.FaultBit = tc.fault, tc.bit
			c.sensor.CheckPullUp = tc.pullUp
			require.Equal(t, Sample{Status: tc.expected}, c.sensor.Read())
			require.False(t, c.irq.Masked())
		})
	}
}

func TestInit(t *testing.T) {
	c := newDHTTestCtx()
	require.NoError(t, c.sensor.Init())
	require.True(t, c.dev.Read())
	require.True(t, c.tl.Now() >= 990*time.Millisecond)
}

type brokenInput struct {
	*sim.DHT11
}

func (brokenInput) Input() error {
	return errors.New("pin busy")
}

func TestReadInputError(t *testing.T) {
	c := newDHTTestCtx()
	c.sensor.Line = brokenInput{c.dev}
	start := c.tl.Now()
	require.Equal(t, Sample{Status: NoAck0}, c.sensor.Read())
	require.Zero(t, c.dev.Transfers())
	require.False(t, c.irq.Masked())
	// gives up right after the start pulse without waiting for an ack.
	limit := StartLowMillis*time.Millisecond + (ReleaseMicros+AckTimeoutMicros/2)*time.Microsecond
	require.Less(t, int64(c.tl.Now()-start), int64(limit))
}
