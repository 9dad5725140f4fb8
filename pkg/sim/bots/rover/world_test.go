package rover

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover.go/pkg/sim"
)

func fullAhead(h *sim.HBridge) {
	h.IN1.Out(true)
	h.IN2.Out(false)
	h.EN.SetDuty(h.EN.Mod)
}

func TestWorldForward(t *testing.T) {
	r := sim.NewRover(sim.NewTimeline())
	w := NewConfig().NewWorld(r)
	t0 := time.Unix(100, 0)
	w.Update(t0)
	require.InDelta(t, 150-12.5, r.Front.Distance(), 1e-9)
	require.InDelta(t, 150-12.5, r.Rear.Distance(), 1e-9)

	fullAhead(r.Left)
	fullAhead(r.Right)
	w.Update(t0.Add(time.Second))
	require.InDelta(t, 60, w.Pose.X, 1e-9)
	require.InDelta(t, 0, w.Pose.Y, 1e-9)
	require.InDelta(t, 77.5, r.Front.Distance(), 1e-9)
	require.InDelta(t, 197.5, r.Rear.Distance(), 1e-9)
	require.True(t, w.Changed())
	require.False(t, w.Changed())

	// stops at the wall.
	w.Update(t0.Add(3 * time.Second))
	require.True(t, w.Pose.X > 136 && w.Pose.X < 137.5, "x=%v", w.Pose.X)
	require.Equal(t, 1, w.Bumps())
	require.True(t, w.Changed())
	require.True(t, r.Front.Distance() < 1.5)
}

func TestWorldLights(t *testing.T) {
	r := sim.NewRover(sim.NewTimeline())
	w := NewConfig().NewWorld(r)
	w.Update(time.Unix(0, 0))
	w.Changed()
	r.Lamp.SetLights(true)
	w.Update(time.Unix(1, 0))
	require.True(t, w.Changed())
	bodies := w.Bodies()
	require.Len(t, bodies, 5)
	require.Equal(t, true, bodies[0].Props["lights"])
	require.True(t, bodies[4].Static)
}

func TestArena(t *testing.T) {
	walls := Arena(100, 50)
	require.Len(t, walls, 4)
	inside := sim.Pos2D{X: 0, Y: 0}
	for _, wall := range walls {
		require.False(t, wall.Contains(inside))
	}
	require.True(t, walls[3].Contains(sim.Pos2D{X: 52, Y: 0}))
	require.True(t, walls[1].Contains(sim.Pos2D{X: 0, Y: 26}))
}
