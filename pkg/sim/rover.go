package sim

import (
	"math"

	"github.com/robotalks/rover.go/pkg/hal"
)

// Rover is the simulated hardware of one vehicle.
type Rover struct {
	Timeline    *Timeline
	Left, Right *HBridge
	Trigger     *TriggerLine
	Front, Rear *Ranger
	DHT         *DHT11
	Lamp        Lamp
	Light       LightLevel
}

// NewRover creates a Rover with no targets in range, 45% humidity and
// 23 degrees Celsius.
func NewRover(tl *Timeline) *Rover {
	r := &Rover{
		Timeline: tl,
		Left:     NewHBridge(),
		Right:    NewHBridge(),
		Front:    NewRanger(tl, math.Inf(1)),
		Rear:     NewRanger(tl, math.Inf(1)),
		DHT:      NewDHT11(tl, 45, 0, 23, 0),
	}
	r.Trigger = &TriggerLine{Timeline: tl, Rangers: []*Ranger{r.Front, r.Rear}}
	return r
}

// SonarClock is the 1.5MHz counter timing echoes.
func (r *Rover) SonarClock() *hal.Clock {
	return r.Timeline.Clock(hal.Rate1500KHz)
}

// DHTClock is the 3MHz counter timing DHT bits.
func (r *Rover) DHTClock() *hal.Clock {
	return r.Timeline.Clock(hal.Rate3MHz)
}
