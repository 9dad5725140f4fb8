package rover

import (
	"github.com/robotalks/rover.go/pkg/drive"
	"github.com/robotalks/rover.go/pkg/hal/periph"
)

// BoardHardware wires a Vehicle to GPIO pins. The board has no ambient
// light ADC so auto lights stay off.
func BoardHardware(b *periph.Board) *Hardware {
	hw := &Hardware{
		SonarClock: b.SonarClock,
		DHTClock:   b.DHTClock,
		Trigger:    b.Trigger,
		FrontEcho:  b.FrontEcho,
		DHTLine:    b.DHT,
		Left:       &drive.Motor{IN1: b.Left.IN1, IN2: b.Left.IN2, EN: b.Left.EN},
		Right:      &drive.Motor{IN1: b.Right.IN1, IN2: b.Right.IN2, EN: b.Right.EN},
	}
	if b.RearEcho != nil {
		hw.RearEcho = b.RearEcho
	}
	if b.Lights != nil {
		hw.Lights = b.Lights
	}
	return hw
}
