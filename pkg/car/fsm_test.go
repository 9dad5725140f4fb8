package car

import (
	"fmt"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

type recordActuator struct {
	calls []string
}

func (a *recordActuator) record(name string, pct int) error {
	a.calls = append(a.calls, fmt.Sprintf("%s %d", name, pct))
	return nil
}

func (a *recordActuator) Forward(pct int) error   { return a.record("forward", pct) }
func (a *recordActuator) Backward(pct int) error  { return a.record("backward", pct) }
func (a *recordActuator) TurnLeft(pct int) error  { return a.record("left", pct) }
func (a *recordActuator) TurnRight(pct int) error { return a.record("right", pct) }
func (a *recordActuator) Stop() error             { return a.record("stop", 0) }

func (a *recordActuator) last() string {
	if len(a.calls) == 0 {
		return ""
	}
	return a.calls[len(a.calls)-1]
}

type fsmTestCtx struct {
	t       *testing.T
	clock   *clock.Mock
	act     *recordActuator
	m       *Machine
	entered []State
}

func newFSMTestCtx(t *testing.T) *fsmTestCtx {
	c := &fsmTestCtx{t: t, clock: clock.NewMock(), act: &recordActuator{}}
	c.m = New(c.act, NewTurnTimer(c.clock, DefaultPivotDuration), 70)
	c.m.Notifier = StateChangedFunc(func(s State) { c.entered = append(c.entered, s) })
	return c
}

func (c *fsmTestCtx) send(evs ...Event) *fsmTestCtx {
	for _, ev := range evs {
		c.m.Handle(ev)
	}
	return c
}

func (c *fsmTestCtx) expect(s State, actuator string) *fsmTestCtx {
	require.Equal(c.t, s, c.m.State())
	require.Equal(c.t, actuator, c.act.last())
	return c
}

var allEvents = []Event{EventNone, CmdForward, CmdBackward, CmdLeft, CmdRight, CmdStop, Obstacle}

func TestStateNames(t *testing.T) {
	require.Equal(t, "IDLE", Idle.String())
	require.Equal(t, "RIGHT", Right.String())
	require.Equal(t, "UNKNOWN", State(9).String())
	require.Equal(t, "UNKNOWN", State(-1).String())
	require.Equal(t, "Obstacle", Obstacle.String())
}

func TestIdleAcceptsOnlyMovement(t *testing.T) {
	for _, ev := range []Event{EventNone, CmdStop, Obstacle} {
		c := newFSMTestCtx(t)
		c.send(ev, ev, ev)
		require.Equal(t, Idle, c.m.State())
		require.Empty(t, c.act.calls)
		require.Empty(t, c.entered)
	}
	expected := map[Event]State{
		CmdForward:  Forward,
		CmdBackward: Backward,
		CmdLeft:     Left,
		CmdRight:    Right,
	}
	for ev, s := range expected {
		c := newFSMTestCtx(t)
		c.send(ev)
		require.Equal(t, s, c.m.State())
		require.Equal(t, []State{s}, c.entered)
	}
}

func TestTransitions(t *testing.T) {
	testCases := []struct {
		from     []Event
		ev       Event
		expect   State
		actuator string
	}{
		{from: []Event{CmdForward}, ev: CmdStop, expect: Idle, actuator: "stop 0"},
		{from: []Event{CmdForward}, ev: Obstacle, expect: Idle, actuator: "stop 0"},
		{from: []Event{CmdForward}, ev: CmdForward, expect: Forward, actuator: "forward 70"},
		{from: []Event{CmdForward}, ev: CmdBackward, expect: Backward, actuator: "backward 70"},
		{from: []Event{CmdForward}, ev: CmdLeft, expect: Left, actuator: "left 70"},
		{from: []Event{CmdBackward}, ev: CmdStop, expect: Idle, actuator: "stop 0"},
		{from: []Event{CmdBackward}, ev: Obstacle, expect: Backward, actuator: "backward 70"},
		{from: []Event{CmdBackward}, ev: CmdRight, expect: Right, actuator: "right 70"},
		{from: []Event{CmdLeft}, ev: CmdStop, expect: Idle, actuator: "stop 0"},
		{from: []Event{CmdLeft}, ev: Obstacle, expect: Left, actuator: "left 70"},
		{from: []Event{CmdLeft}, ev: CmdRight, expect: Right, actuator: "right 70"},
		{from: []Event{CmdLeft}, ev: CmdForward, expect: Forward, actuator: "forward 70"},
		{from: []Event{CmdRight}, ev: CmdBackward, expect: Backward, actuator: "backward 70"},
		{from: []Event{CmdRight}, ev: CmdLeft, expect: Left, actuator: "left 70"},
		{from: []Event{CmdRight}, ev: EventNone, expect: Right, actuator: "right 70"},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v+%v", tc.from, tc.ev), func(t *testing.T) {
			c := newFSMTestCtx(t)
			c.send(tc.from...).send(tc.ev).expect(tc.expect, tc.actuator)
		})
	}
}

func TestStopFromAnyMovingState(t *testing.T) {
	for _, ev := range []Event{CmdForward, CmdBackward, CmdLeft, CmdRight} {
		c := newFSMTestCtx(t)
		c.send(ev, CmdStop).expect(Idle, "stop 0")
		require.False(t, c.m.Timer.Active())
		require.False(t, c.m.IsMoving())
	}
}

func TestRearGuard(t *testing.T) {
	c := newFSMTestCtx(t)
	c.send(CmdBackward, Obstacle).expect(Backward, "backward 70")
	c.m.RearGuard = true
	c.send(Obstacle).expect(Idle, "stop 0")
}

func TestUnlistedEventsAreNoops(t *testing.T) {
	for _, start := range []Event{CmdForward, CmdBackward, CmdLeft, CmdRight} {
		for _, ev := range allEvents {
			c := newFSMTestCtx(t)
			c.send(start)
			before := c.m.State()
			c.send(ev)
			_, listed := transitions[before][ev]
			if !listed && !(ev == Obstacle && before == Backward) {
				require.Equal(t, before, c.m.State(), "%v in %v", ev, before)
			}
		}
	}
}

func TestSetSpeed(t *testing.T) {
	c := newFSMTestCtx(t)
	c.m.SetSpeed(40)
	require.Equal(t, 40, c.m.Speed())
	require.Empty(t, c.act.calls, "idle only stores the speed")

	c.send(CmdForward).expect(Forward, "forward 40")
	c.m.SetSpeed(90)
	c.expect(Forward, "forward 90")
	require.Equal(t, []State{Forward}, c.entered)

	c.m.SetSpeed(250)
	c.expect(Forward, "forward 100")
	c.m.SetSpeed(-1)
	c.expect(Forward, "forward 0")

	c.send(CmdStop, CmdLeft).expect(Left, "left 0")
}

func TestTurnTimerExpiry(t *testing.T) {
	c := newFSMTestCtx(t)
	c.send(CmdLeft).expect(Left, "left 70")
	require.True(t, c.m.Timer.Active())

	c.clock.Add(DefaultPivotDuration / 2)
	require.False(t, c.m.Poll())
	require.Equal(t, Left, c.m.State())

	c.clock.Add(DefaultPivotDuration / 2)
	require.True(t, c.m.Poll())
	c.expect(Idle, "stop 0")
	require.False(t, c.m.Timer.Active())
	require.Equal(t, []State{Left, Idle}, c.entered)
	require.False(t, c.m.Poll())
}

func TestTurnTimerRearm(t *testing.T) {
	c := newFSMTestCtx(t)
	c.send(CmdRight)
	c.clock.Add(DefaultPivotDuration * 3 / 4)
	c.send(CmdRight)
	c.clock.Add(DefaultPivotDuration * 3 / 4)
	require.False(t, c.m.Poll())
	require.Equal(t, Right, c.m.State())

	c.send(CmdLeft)
	c.clock.Add(DefaultPivotDuration * 3 / 4)
	require.False(t, c.m.Poll())
	c.clock.Add(DefaultPivotDuration / 4)
	require.True(t, c.m.Poll())
	require.Equal(t, Idle, c.m.State())
}

func TestTurnTimerCanceledOnExit(t *testing.T) {
	c := newFSMTestCtx(t)
	c.send(CmdLeft, CmdForward)
	require.False(t, c.m.Timer.Active())
	c.clock.Add(DefaultPivotDuration * 2)
	require.False(t, c.m.Poll())
	c.expect(Forward, "forward 70")
}

func TestStop(t *testing.T) {
	c := newFSMTestCtx(t)
	c.m.Stop()
	c.expect(Idle, "stop 0")
	require.Equal(t, []State{Idle}, c.entered)
}
