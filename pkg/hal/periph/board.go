package periph

import (
	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/robotalks/rover.go/pkg/hal"
)

// Motor is the pins of one H-bridge side.
type Motor struct {
	IN1, IN2 *Pin
	EN       *PWM
}

// Board is the opened vehicle wiring.
type Board struct {
	Trigger   *Pin
	FrontEcho *Pin
	// RearEcho and Lights are nil when not configured.
	RearEcho *Pin
	DHT      *Pin
	Lights   *Pin
	Left     Motor
	Right    Motor

	SonarClock *hal.Clock
	DHTClock   *hal.Clock
}

// Open initializes the host drivers and opens the pins.
func Open(conf *Config) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	return OpenPins(conf, clock.New())
}

// OpenPins looks up the configured pins in the GPIO registry.
func OpenPins(conf *Config, clk clock.Clock) (*Board, error) {
	b := &Board{
		SonarClock: NewCounter(clk, hal.Rate1500KHz).HalClock(),
		DHTClock:   NewCounter(clk, hal.Rate3MHz).HalClock(),
	}
	var err error
	required := []struct {
		name string
		pin  **Pin
	}{
		{conf.Trigger, &b.Trigger},
		{conf.FrontEcho, &b.FrontEcho},
		{conf.DHT, &b.DHT},
		{conf.Left.IN1, &b.Left.IN1},
		{conf.Left.IN2, &b.Left.IN2},
		{conf.Right.IN1, &b.Right.IN1},
		{conf.Right.IN2, &b.Right.IN2},
	}
	for _, r := range required {
		if *r.pin, err = LookupPin(r.name); err != nil {
			return nil, err
		}
	}
	if conf.RearEcho != "" {
		if b.RearEcho, err = LookupPin(conf.RearEcho); err != nil {
			return nil, err
		}
	}
	if conf.Lights != "" {
		if b.Lights, err = LookupPin(conf.Lights); err != nil {
			return nil, err
		}
	}
	freq := physic.Frequency(conf.PWMHz) * physic.Hertz
	if b.Left.EN, err = lookupPWM(conf.Left.EN, freq); err != nil {
		return nil, err
	}
	if b.Right.EN, err = lookupPWM(conf.Right.EN, freq); err != nil {
		return nil, err
	}
	for _, echo := range []*Pin{b.FrontEcho, b.RearEcho} {
		if echo != nil {
			if err = echo.Input(); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

func lookupPWM(name string, freq physic.Frequency) (*PWM, error) {
	p, err := LookupPin(name)
	if err != nil {
		return nil, err
	}
	return &PWM{IO: p.IO, Freq: freq}, nil
}
