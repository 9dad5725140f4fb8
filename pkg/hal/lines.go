// Package hal defines the hardware boundary of the vehicle: counters,
// digital lines, PWM channels and the few analog/peripheral collaborators
// the control core talks to.
//
// Implementations live in hal/periph (GPIO on a Linux board) and in the
// sim package (scripted hardware on a virtual timeline).
package hal

// Line is a digital input.
type Line interface {
	Read() bool
}

// Output is a digital output.
type Output interface {
	Out(high bool) error
}

// Pin is a bidirectional line, e.g. a single-wire bus.
type Pin interface {
	Line
	// Input releases the line and enables the pull-up.
	Input() error
	// Output drives the line.
	Output(high bool) error
}

// PWM is a pulse width modulated channel.
type PWM interface {
	// Modulus is the duty value equivalent to 100%.
	Modulus() uint32
	SetDuty(duty uint32) error
}

// IRQ masks interrupt delivery.
type IRQ interface {
	Disable()
	Enable()
}

// Lights switches the head lights.
type Lights interface {
	SetLights(on bool) error
}

// LightSensor reads the raw ambient light ADC value.
type LightSensor interface {
	ReadLight() uint16
}

// NoIRQ is an IRQ that masks nothing.
type NoIRQ struct{}

// Disable implements IRQ.
func (NoIRQ) Disable() {}

// Enable implements IRQ.
func (NoIRQ) Enable() {}
