// Package drive controls the two drive motors through a dual H-bridge.
package drive

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/hal"
)

// Direction of a composite maneuver.
type Direction int

// Directions.
const (
	Stopped Direction = iota
	Forward
	Backward
	TurnLeft
	TurnRight
)

func (d Direction) String() string {
	switch d {
	case Stopped:
		return "stopped"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Motion is the last commanded maneuver.
type Motion struct {
	Direction Direction
	Speed     int
}

// TurnPolicy selects how turns are realized.
type TurnPolicy int

// Turn policies.
const (
	// Pivot reverses the inner wheel.
	Pivot TurnPolicy = iota
	// HalfInner runs the inner wheel forward at half speed.
	HalfInner
)

// DefaultSpeed is the power-up speed percentage.
const DefaultSpeed = 100

// Motor is one side of the H-bridge.
type Motor struct {
	IN1, IN2 hal.Output
	EN       hal.PWM
}

// Forward runs the motor forward at pct.
func (m *Motor) Forward(pct int) error {
	return m.run(true, false, pct)
}

// Backward runs the motor backward at pct.
func (m *Motor) Backward(pct int) error {
	return m.run(false, true, pct)
}

// Coast releases the motor.
func (m *Motor) Coast() error {
	return m.run(false, false, 0)
}

// Duty converts pct into a duty value against modulus.
func Duty(modulus uint32, pct int) uint32 {
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	return uint32(uint64(modulus) * uint64(pct) / 100)
}

func (m *Motor) run(in1, in2 bool, pct int) error {
	if err := m.IN1.Out(in1); err != nil {
		return err
	}
	if err := m.IN2.Out(in2); err != nil {
		return err
	}
	return m.EN.SetDuty(Duty(m.EN.Modulus(), pct))
}

// Drive composes the left and right motors into maneuvers.
type Drive struct {
	Left, Right *Motor
	Turn        TurnPolicy
	// RightBoost is subtracted from the left side to trim a weaker
	// right motor.
	RightBoost int

	defaultSpeed int
	motion       Motion
}

// New creates a Drive with DefaultSpeed.
func New(left, right *Motor) *Drive {
	return &Drive{Left: left, Right: right, defaultSpeed: DefaultSpeed}
}

// DefaultSpeed returns the default speed.
func (d *Drive) DefaultSpeed() int {
	return d.defaultSpeed
}

// SetDefaultSpeed sets the default speed, clamped to 0..100.
func (d *Drive) SetDefaultSpeed(pct int) {
	d.defaultSpeed = clamp(pct)
}

// Motion returns the last commanded maneuver.
func (d *Drive) Motion() Motion {
	return d.motion
}

// Forward drives both motors forward.
func (d *Drive) Forward(pct int) error {
	return d.apply(Forward, pct, (*Motor).Forward, (*Motor).Forward, d.leftSpeed(pct), clamp(pct))
}

// Backward drives both motors backward.
func (d *Drive) Backward(pct int) error {
	return d.apply(Backward, pct, (*Motor).Backward, (*Motor).Backward, d.leftSpeed(pct), clamp(pct))
}

// TurnLeft turns in place to the left, or arcs with HalfInner.
func (d *Drive) TurnLeft(pct int) error {
	if d.Turn == HalfInner {
		return d.apply(TurnLeft, pct, (*Motor).Forward, (*Motor).Forward, d.leftSpeed(pct)/2, clamp(pct))
	}
	return d.apply(TurnLeft, pct, (*Motor).Backward, (*Motor).Forward, d.leftSpeed(pct), clamp(pct))
}

// TurnRight turns in place to the right, or arcs with HalfInner.
func (d *Drive) TurnRight(pct int) error {
	if d.Turn == HalfInner {
		return d.apply(TurnRight, pct, (*Motor).Forward, (*Motor).Forward, d.leftSpeed(pct), clamp(pct)/2)
	}
	return d.apply(TurnRight, pct, (*Motor).Forward, (*Motor).Backward, d.leftSpeed(pct), clamp(pct))
}

// Stop coasts both motors regardless of the previous maneuver.
func (d *Drive) Stop() error {
	d.motion = Motion{}
	errL, errR := d.Left.Coast(), d.Right.Coast()
	if errL != nil {
		return errL
	}
	return errR
}

func (d *Drive) apply(dir Direction, pct int, left, right func(*Motor, int) error, lpct, rpct int) error {
	d.motion = Motion{Direction: dir, Speed: clamp(pct)}
	glog.V(2).Infof("drive %v L=%d R=%d", dir, lpct, rpct)
	if err := left(d.Left, lpct); err != nil {
		return err
	}
	return right(d.Right, rpct)
}

func (d *Drive) leftSpeed(pct int) int {
	pct = clamp(pct)
	if pct > d.RightBoost {
		return pct - d.RightBoost
	}
	return 0
}

func clamp(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
