// Package dht reads DHT11 temperature/humidity sensors over the
// single-wire bus by bit-banging a GPIO line.
package dht

import (
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/hal"
)

// ErrorCode is the outcome of a read.
type ErrorCode int

// Error codes, one per protocol phase.
const (
	OK ErrorCode = iota
	NoPullUp
	NoAck0
	NoAck1
	NoData0
	NoData1
	BadCRC
)

func (c ErrorCode) String() string {
	switch c {
	case OK:
		return "OK"
	case NoPullUp:
		return "NO_PULLUP"
	case NoAck0:
		return "NO_ACK_0"
	case NoAck1:
		return "NO_ACK_1"
	case NoData0:
		return "NO_DATA_0"
	case NoData1:
		return "NO_DATA_1"
	case BadCRC:
		return "BAD_CRC"
	}
	return "UNKNOWN"
}

// CRCPolicy decides what a checksum mismatch does to a read.
type CRCPolicy int

// Policies.
const (
	// RejectOnBadCRC fails the read with BadCRC.
	RejectOnBadCRC CRCPolicy = iota
	// ReportOnBadCRC keeps the decoded values and only logs the mismatch.
	ReportOnBadCRC
)

// Protocol timing.
const (
	StartLowMillis   = 20
	ReleaseMicros    = 40
	AckTimeoutMicros = 200
	BitTimeoutMicros = 200
	// BitOneMicros is the high time above which a bit reads as 1.
	BitOneMicros = 40
	// StabilizeMillis is the power-up time before the first read.
	StabilizeMillis = 1000
	// MinInterval is the shortest allowed gap between reads.
	MinInterval = time.Second
)

// Sample is one reading in hundredths of a degree Celsius and of a
// percent relative humidity.
type Sample struct {
	TemperatureCenti int
	HumidityCenti    int
	Status           ErrorCode
}

// FormatCenti prints a centi-unit value with two decimals.
func FormatCenti(v int) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Sensor talks to one DHT11.
type Sensor struct {
	Clock       *hal.Clock
	Line        hal.Pin
	IRQ         hal.IRQ
	CheckPullUp bool
	Policy      CRCPolicy
}

// New creates a Sensor; clock should run at 3MHz for full resolution.
func New(clock *hal.Clock, line hal.Pin, irq hal.IRQ) *Sensor {
	if irq == nil {
		irq = hal.NoIRQ{}
	}
	return &Sensor{Clock: clock, Line: line, IRQ: irq}
}

// Idle drives the bus high without waiting.
func (s *Sensor) Idle() error {
	return s.Line.Output(true)
}

// Init idles the bus high and waits for the sensor to stabilize.
func (s *Sensor) Init() error {
	if err := s.Idle(); err != nil {
		return err
	}
	s.Clock.DelayMillis(StabilizeMillis)
	return nil
}

// Decode converts the 5 received bytes.
func Decode(buf [5]byte) Sample {
	smp := Sample{
		HumidityCenti:    int(buf[0])*100 + int(buf[1]),
		TemperatureCenti: int(buf[2])*100 + int(buf[3]),
	}
	if buf[0]+buf[1]+buf[2]+buf[3] != buf[4] {
		smp.Status = BadCRC
	}
	return smp
}

// Read performs one full transfer with interrupts masked. Callers must
// keep MinInterval between reads.
func (s *Sensor) Read() Sample {
	buf, code := s.transfer()
	if code != OK {
		glog.V(2).Infof("dht read failed: %v", code)
		return Sample{Status: code}
	}
	smp := Decode(buf)
	if smp.Status == BadCRC {
		glog.Warningf("dht checksum mismatch: % x", buf)
		if s.Policy == ReportOnBadCRC {
			smp.Status = OK
		} else {
			smp.TemperatureCenti, smp.HumidityCenti = 0, 0
		}
	}
	return smp
}

func (s *Sensor) transfer() (buf [5]byte, code ErrorCode) {
	s.IRQ.Disable()
	defer s.IRQ.Enable()

	clk, line := s.Clock, s.Line
	if s.CheckPullUp {
		if err := line.Input(); err != nil {
			return buf, NoPullUp
		}
		clk.DelayMicros(ReleaseMicros)
		if !line.Read() {
			return buf, NoPullUp
		}
	}

	if err := line.Output(false); err != nil {
		glog.Warningf("dht start error: %v", err)
		return buf, NoAck0
	}
	clk.DelayMillis(StartLowMillis)
	if err := line.Output(true); err != nil {
		glog.Warningf("dht release error: %v", err)
		return buf, NoAck0
	}
	clk.DelayMicros(ReleaseMicros)
	if err := line.Input(); err != nil {
		glog.Warningf("dht input error: %v", err)
		return buf, NoAck0
	}

	ackTimeout := clk.MicrosToTicks(AckTimeoutMicros)
	if !clk.WaitFor(line, false, ackTimeout) {
		return buf, NoAck0
	}
	if !clk.WaitFor(line, true, ackTimeout) {
		return buf, NoAck1
	}
	if !clk.WaitFor(line, false, ackTimeout) {
		return buf, NoAck0
	}

	bitTimeout := clk.MicrosToTicks(BitTimeoutMicros)
	oneTicks := clk.MicrosToTicks(BitOneMicros)
	for n := 0; n < 40; n++ {
		if !clk.WaitFor(line, true, bitTimeout) {
			return buf, NoData0
		}
		start := clk.Now()
		for line.Read() {
			if clk.Since(start) > bitTimeout {
				return buf, NoData1
			}
		}
		buf[n/8] <<= 1
		if clk.Since(start) > oneTicks {
			buf[n/8] |= 1
		}
	}
	return buf, OK
}
