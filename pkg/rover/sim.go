package rover

import (
	"github.com/robotalks/rover.go/pkg/drive"
	"github.com/robotalks/rover.go/pkg/sim"
)

// SimHardware wires a Vehicle to simulated hardware.
func SimHardware(r *sim.Rover) *Hardware {
	return &Hardware{
		SonarClock:  r.SonarClock(),
		DHTClock:    r.DHTClock(),
		Trigger:     r.Trigger,
		FrontEcho:   r.Front,
		RearEcho:    r.Rear,
		DHTLine:     r.DHT,
		Left:        &drive.Motor{IN1: &r.Left.IN1, IN2: &r.Left.IN2, EN: r.Left.EN},
		Right:       &drive.Motor{IN1: &r.Right.IN1, IN2: &r.Right.IN2, EN: r.Right.EN},
		Lights:      &r.Lamp,
		LightSensor: &r.Light,
	}
}
