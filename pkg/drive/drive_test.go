package drive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover.go/pkg/sim"
)

type bridgeState struct {
	in1, in2 bool
	duty     uint32
}

type driveTestCtx struct {
	left, right *sim.HBridge
	drive       *Drive
}

func newDriveTestCtx() *driveTestCtx {
	c := &driveTestCtx{left: sim.NewHBridge(), right: sim.NewHBridge()}
	c.left.EN.Mod, c.right.EN.Mod = 1000, 1000
	c.drive = New(
		&Motor{IN1: &c.left.IN1, IN2: &c.left.IN2, EN: c.left.EN},
		&Motor{IN1: &c.right.IN1, IN2: &c.right.IN2, EN: c.right.EN},
	)
	return c
}

func state(h *sim.HBridge) bridgeState {
	return bridgeState{in1: h.IN1.High(), in2: h.IN2.High(), duty: h.EN.Duty()}
}

func TestDuty(t *testing.T) {
	require.Equal(t, uint32(0), Duty(11999, 0))
	require.Equal(t, uint32(8399), Duty(11999, 70))
	require.Equal(t, uint32(11999), Duty(11999, 100))
	require.Equal(t, uint32(11999), Duty(11999, 150))
	require.Equal(t, uint32(0), Duty(11999, -5))
}

func TestManeuvers(t *testing.T) {
	fwd := func(duty uint32) bridgeState { return bridgeState{in1: true, duty: duty} }
	bwd := func(duty uint32) bridgeState { return bridgeState{in2: true, duty: duty} }
	testCases := []struct {
		name        string
		policy      TurnPolicy
		action      func(*Drive) error
		left, right bridgeState
		motion      Motion
	}{
		{
			name:   "forward",
			action: func(d *Drive) error { return d.Forward(70) },
			left:   fwd(700), right: fwd(700),
			motion: Motion{Direction: Forward, Speed: 70},
		},
		{
			name:   "backward",
			action: func(d *Drive) error { return d.Backward(50) },
			left:   bwd(500), right: bwd(500),
			motion: Motion{Direction: Backward, Speed: 50},
		},
		{
			name:   "pivot left",
			action: func(d *Drive) error { return d.TurnLeft(60) },
			left:   bwd(600), right: fwd(600),
			motion: Motion{Direction: TurnLeft, Speed: 60},
		},
		{
			name:   "pivot right",
			action: func(d *Drive) error { return d.TurnRight(60) },
			left:   fwd(600), right: bwd(600),
			motion: Motion{Direction: TurnRight, Speed: 60},
		},
		{
			name:   "arc left",
			policy: HalfInner,
			action: func(d *Drive) error { return d.TurnLeft(80) },
			left:   fwd(400), right: fwd(800),
			motion: Motion{Direction: TurnLeft, Speed: 80},
		},
		{
			name:   "arc right",
			policy: HalfInner,
			action: func(d *Drive) error { return d.TurnRight(80) },
			left:   fwd(800), right: fwd(400),
			motion: Motion{Direction: TurnRight, Speed: 80},
		},
		{
			name:   "clamped",
			action: func(d *Drive) error { return d.Forward(250) },
			left:   fwd(1000), right: fwd(1000),
			motion: Motion{Direction: Forward, Speed: 100},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newDriveTestCtx()
			c.drive.Turn = tc.policy
			require.NoError(t, tc.action(c.drive))
			require.Equal(t, tc.left, state(c.left))
			require.Equal(t, tc.right, state(c.right))
			require.Equal(t, tc.motion, c.drive.Motion())
		})
	}
}

func TestStopIdempotent(t *testing.T) {
	c := newDriveTestCtx()
	require.NoError(t, c.drive.Stop())
	require.NoError(t, c.drive.TurnLeft(90))
	for i := 0; i < 2; i++ {
		require.NoError(t, c.drive.Stop())
		require.Equal(t, bridgeState{}, state(c.left))
		require.Equal(t, bridgeState{}, state(c.right))
		require.Equal(t, Motion{}, c.drive.Motion())
	}
	require.Zero(t, c.left.Drive())
}

func TestRightBoost(t *testing.T) {
	c := newDriveTestCtx()
	c.drive.RightBoost = 20
	require.NoError(t, c.drive.Forward(50))
	require.Equal(t, uint32(300), c.left.EN.Duty())
	require.Equal(t, uint32(500), c.right.EN.Duty())
	require.NoError(t, c.drive.Forward(10))
	require.Equal(t, uint32(0), c.left.EN.Duty())
}

func TestDefaultSpeed(t *testing.T) {
	c := newDriveTestCtx()
	require.Equal(t, DefaultSpeed, c.drive.DefaultSpeed())
	c.drive.SetDefaultSpeed(130)
	require.Equal(t, 100, c.drive.DefaultSpeed())
	c.drive.SetDefaultSpeed(70)
	require.Equal(t, 70, c.drive.DefaultSpeed())
}
