// Package car implements the movement state machine of the vehicle.
package car

import (
	"fmt"

	"github.com/golang/glog"
)

// State is the movement state.
type State int

// States.
const (
	Idle State = iota
	Forward
	Backward
	Left
	Right
)

var stateNames = [...]string{"IDLE", "FORWARD", "BACKWARD", "LEFT", "RIGHT"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "UNKNOWN"
}

// IsMoving reports whether the state drives the motors.
func (s State) IsMoving() bool {
	return s != Idle
}

// IsTurning reports whether the state is a timed turn.
func (s State) IsTurning() bool {
	return s == Left || s == Right
}

// Event drives the state machine.
type Event int

// Events.
const (
	EventNone Event = iota
	CmdForward
	CmdBackward
	CmdLeft
	CmdRight
	CmdStop
	Obstacle
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "None"
	case CmdForward:
		return "CmdForward"
	case CmdBackward:
		return "CmdBackward"
	case CmdLeft:
		return "CmdLeft"
	case CmdRight:
		return "CmdRight"
	case CmdStop:
		return "CmdStop"
	case Obstacle:
		return "Obstacle"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Actuator executes maneuvers.
type Actuator interface {
	Forward(pct int) error
	Backward(pct int) error
	TurnLeft(pct int) error
	TurnRight(pct int) error
	Stop() error
}

// Notifier is told about every state entry.
type Notifier interface {
	StateChanged(State)
}

// StateChangedFunc is the func form of Notifier.
type StateChangedFunc func(State)

// StateChanged implements Notifier.
func (f StateChangedFunc) StateChanged(s State) {
	f(s)
}

// transitions lists, per state, the events which are not ignored.
// A transition to the current state re-applies the speed, and restarts
// the countdown of a turn.
var transitions = [...]map[Event]State{
	Idle: {
		CmdForward:  Forward,
		CmdBackward: Backward,
		CmdLeft:     Left,
		CmdRight:    Right,
	},
	Forward: {
		Obstacle:    Idle,
		CmdStop:     Idle,
		CmdForward:  Forward,
		CmdBackward: Backward,
		CmdLeft:     Left,
		CmdRight:    Right,
	},
	Backward: {
		Obstacle:    Idle,
		CmdStop:     Idle,
		CmdForward:  Forward,
		CmdBackward: Backward,
		CmdLeft:     Left,
		CmdRight:    Right,
	},
	Left: {
		CmdStop:     Idle,
		CmdForward:  Forward,
		CmdBackward: Backward,
		CmdLeft:     Left,
		CmdRight:    Right,
	},
	Right: {
		CmdStop:     Idle,
		CmdForward:  Forward,
		CmdBackward: Backward,
		CmdLeft:     Left,
		CmdRight:    Right,
	},
}

// Machine is the vehicle state machine. It is not safe for concurrent
// use; the control loop owns it.
type Machine struct {
	Actuator Actuator
	Timer    *TurnTimer
	Notifier Notifier
	// RearGuard lets Obstacle stop a reversing vehicle.
	RearGuard bool

	state State
	speed int
}

// New creates a Machine in Idle with the given speed.
func New(act Actuator, timer *TurnTimer, speed int) *Machine {
	return &Machine{Actuator: act, Timer: timer, speed: clampSpeed(speed)}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Speed returns the current speed percentage.
func (m *Machine) Speed() int {
	return m.speed
}

// IsMoving reports whether the vehicle is not Idle.
func (m *Machine) IsMoving() bool {
	return m.state.IsMoving()
}

// Handle processes an event. Events not accepted by the current state
// are ignored.
func (m *Machine) Handle(ev Event) {
	if ev == EventNone {
		return
	}
	if ev == Obstacle && m.state == Backward && !m.RearGuard {
		return
	}
	next, ok := transitions[m.state][ev]
	if !ok {
		glog.V(4).Infof("%v ignored in %v", ev, m.state)
		return
	}
	if next == m.state {
		m.apply()
		if next.IsTurning() && m.Timer != nil {
			m.Timer.Arm()
		}
		return
	}
	m.enter(next)
}

// Poll checks the turn timer and ends an expired turn.
// It reports whether the state changed.
func (m *Machine) Poll() bool {
	if !m.state.IsTurning() || m.Timer == nil || !m.Timer.Expired() {
		return false
	}
	m.enter(Idle)
	return true
}

// SetSpeed changes the speed, re-applying it while moving.
func (m *Machine) SetSpeed(pct int) {
	m.speed = clampSpeed(pct)
	if m.state.IsMoving() {
		m.apply()
	}
}

// Stop enters Idle unconditionally.
func (m *Machine) Stop() {
	m.enter(Idle)
}

func (m *Machine) enter(next State) {
	if m.state.IsTurning() && m.Timer != nil {
		m.Timer.Cancel()
	}
	m.state = next
	m.apply()
	if next.IsTurning() && m.Timer != nil {
		m.Timer.Arm()
	}
	if n := m.Notifier; n != nil {
		n.StateChanged(next)
	}
}

func (m *Machine) apply() {
	var err error
	switch m.state {
	case Idle:
		err = m.Actuator.Stop()
	case Forward:
		err = m.Actuator.Forward(m.speed)
	case Backward:
		err = m.Actuator.Backward(m.speed)
	case Left:
		err = m.Actuator.TurnLeft(m.speed)
	case Right:
		err = m.Actuator.TurnRight(m.speed)
	}
	if err != nil {
		glog.Errorf("actuator error in %v: %v", m.state, err)
	}
}

func clampSpeed(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
