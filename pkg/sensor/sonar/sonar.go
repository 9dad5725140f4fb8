// Package sonar measures distances with HC-SR04 style ultrasonic
// rangers sharing one trigger line.
package sonar

import (
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/hal"
)

// SensorID selects the ranger.
type SensorID int

// Rangers.
const (
	Front SensorID = iota
	Rear
	NumSensors
)

func (id SensorID) String() string {
	switch id {
	case Front:
		return "front"
	case Rear:
		return "rear"
	}
	return fmt.Sprintf("sensor(%d)", int(id))
}

// Measurement limits in centimeters.
const (
	MinDistanceCm     = 2
	MaxDistanceCm     = 400
	TimeoutDistanceCm = 500
	// MicrosPerCm is the round trip time of sound over one centimeter.
	MicrosPerCm = 58
)

// Timeouts in ticks of a 1.5MHz counter.
const (
	ShortTimeoutTicks uint16 = 15000 // ~10ms
	LongTimeoutTicks  uint16 = 45000 // ~30ms
)

// Trigger pulse timing.
const (
	TriggerSetupMicros = 2
	TriggerPulseMicros = 10
	// SettleMicros separates consecutive measurements so echoes of the
	// previous ping die out.
	SettleMicros = 50000
)

// Sample is one distance measurement.
type Sample struct {
	DistanceCm int
	Valid      bool
}

// Within reports whether a valid sample is at or below thresholdCm.
func (s Sample) Within(thresholdCm int) bool {
	return s.Valid && s.DistanceCm <= thresholdCm
}

func (s Sample) String() string {
	if !s.Valid {
		return "--"
	}
	return fmt.Sprintf("%d cm", s.DistanceCm)
}

// Sensor drives the shared trigger and times the echoes.
type Sensor struct {
	Clock   *hal.Clock
	Trigger hal.Output
	Echo    [NumSensors]hal.Line

	ShortTimeout uint16
	LongTimeout  uint16

	lock sync.Mutex
}

// New creates a Sensor. rear may be nil when there is no rear ranger.
func New(clock *hal.Clock, trigger hal.Output, front, rear hal.Line) *Sensor {
	return &Sensor{
		Clock:        clock,
		Trigger:      trigger,
		Echo:         [NumSensors]hal.Line{front, rear},
		ShortTimeout: ShortTimeoutTicks,
		LongTimeout:  LongTimeoutTicks,
	}
}

// Init drives the trigger low and lets the rangers settle.
func (s *Sensor) Init() error {
	if err := s.Trigger.Out(false); err != nil {
		return err
	}
	s.Clock.DelayMicros(SettleMicros)
	return nil
}

// Has reports whether the ranger is wired.
func (s *Sensor) Has(id SensorID) bool {
	return id >= 0 && id < NumSensors && s.Echo[id] != nil
}

// PulseMicros pings once and returns the echo width, 0 on timeout.
func (s *Sensor) PulseMicros(id SensorID) uint32 {
	if !s.Has(id) {
		return 0
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.pulse(id)
}

// Measure pings once and converts the echo into a Sample.
func (s *Sensor) Measure(id SensorID) Sample {
	return FromPulse(s.PulseMicros(id))
}

// Both measures front then rear, separated by settle microseconds.
func (s *Sensor) Both(settle uint32) (front, rear Sample) {
	front = s.Measure(Front)
	if !s.Has(Rear) {
		return front, Sample{DistanceCm: TimeoutDistanceCm}
	}
	s.Clock.DelayMicros(settle)
	rear = s.Measure(Rear)
	return
}

// FromPulse converts an echo width into a Sample.
func FromPulse(us uint32) Sample {
	if us == 0 {
		return Sample{DistanceCm: TimeoutDistanceCm}
	}
	cm := int(us / MicrosPerCm)
	switch {
	case cm < MinDistanceCm:
		return Sample{DistanceCm: MinDistanceCm, Valid: true}
	case cm > MaxDistanceCm:
		return Sample{DistanceCm: TimeoutDistanceCm}
	}
	return Sample{DistanceCm: cm, Valid: true}
}

func (s *Sensor) pulse(id SensorID) uint32 {
	echo, clk := s.Echo[id], s.Clock
	if !clk.WaitFor(echo, false, s.ShortTimeout) {
		glog.V(2).Infof("%v echo stuck high", id)
		return 0
	}
	if err := s.ping(); err != nil {
		glog.Warningf("%v trigger error: %v", id, err)
		return 0
	}
	if !clk.WaitFor(echo, true, s.ShortTimeout) {
		glog.V(2).Infof("%v no echo", id)
		return 0
	}
	start := clk.Now()
	for echo.Read() {
		if clk.Since(start) > s.LongTimeout {
			glog.V(2).Infof("%v echo too long", id)
			return 0
		}
	}
	return clk.TicksToMicros(clk.Since(start))
}

func (s *Sensor) ping() error {
	if err := s.Trigger.Out(false); err != nil {
		return err
	}
	s.Clock.DelayMicros(TriggerSetupMicros)
	if err := s.Trigger.Out(true); err != nil {
		return err
	}
	s.Clock.DelayMicros(TriggerPulseMicros)
	return s.Trigger.Out(false)
}
