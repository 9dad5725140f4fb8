// Package periph implements the hal interfaces on GPIO pins through
// periph.io.
package periph

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// Pin adapts a gpio.PinIO to hal.Pin and hal.Output.
type Pin struct {
	IO gpio.PinIO
}

// LookupPin finds a registered GPIO.
func LookupPin(name string) (*Pin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errors.Errorf("no GPIO found for %q", name)
	}
	return &Pin{IO: p}, nil
}

// Read implements hal.Line.
func (p *Pin) Read() bool {
	return p.IO.Read() == gpio.High
}

// Out implements hal.Output.
func (p *Pin) Out(high bool) error {
	return errors.Wrap(p.IO.Out(gpio.Level(high)), p.IO.Name())
}

// Output implements hal.Pin.
func (p *Pin) Output(high bool) error {
	return p.Out(high)
}

// Input implements hal.Pin, enabling the pull-up.
func (p *Pin) Input() error {
	return errors.Wrap(p.IO.In(gpio.PullUp, gpio.NoEdge), p.IO.Name())
}

// SetLights implements hal.Lights.
func (p *Pin) SetLights(on bool) error {
	return p.Out(on)
}

// PWM adapts a gpio.PinIO to hal.PWM.
type PWM struct {
	IO   gpio.PinIO
	Freq physic.Frequency
}

// Modulus implements hal.PWM.
func (p *PWM) Modulus() uint32 {
	return uint32(gpio.DutyMax)
}

// SetDuty implements hal.PWM.
func (p *PWM) SetDuty(duty uint32) error {
	if duty == 0 {
		return errors.Wrap(p.IO.Out(gpio.Low), p.IO.Name())
	}
	if duty > uint32(gpio.DutyMax) {
		duty = uint32(gpio.DutyMax)
	}
	return errors.Wrap(p.IO.PWM(gpio.Duty(duty), p.Freq), p.IO.Name())
}
