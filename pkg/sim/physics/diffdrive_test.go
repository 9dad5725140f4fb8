package physics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover.go/pkg/sim"
)

func TestIntegrate(t *testing.T) {
	dd := DiffDrive{MaxSpeed: 50, Track: 20}
	// a pivot at full duty turns 5 rad/s.
	pivotSecs := math.Pi / 2 / 5
	quarter := time.Duration(pivotSecs * float64(time.Second))
	// outer wheel 50cm/s, inner 25cm/s: radius 30cm, 1.25 rad/s.
	arcSecs := math.Pi / 2 / 1.25
	arc := time.Duration(arcSecs * float64(time.Second))
	testCases := []struct {
		name        string
		left, right float64
		after       time.Duration
		x, y, deg   float64
	}{
		{name: "stopped", after: time.Second},
		{name: "forward", left: 1, right: 1, after: time.Second, x: 50},
		{name: "half speed", left: 0.5, right: 0.5, after: 2 * time.Second, x: 50},
		{name: "backward", left: -1, right: -1, after: time.Second, x: -50},
		{name: "pivot left", left: -1, right: 1, after: quarter, deg: 90},
		{name: "pivot right", left: 1, right: -1, after: quarter, deg: -90},
		{name: "arc left", left: 0.5, right: 1, after: arc, x: 30, y: 30, deg: 90},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pose := dd.Integrate(sim.Pose2D{}, tc.left, tc.right, tc.after)
			require.InDelta(t, tc.x, pose.X, 1e-6)
			require.InDelta(t, tc.y, pose.Y, 1e-6)
			require.InDelta(t, tc.deg, pose.Orientation.Degrees(), 1e-6)
		})
	}
}

func TestIntegrateHeading(t *testing.T) {
	dd := DiffDrive{MaxSpeed: 10, Track: 20}
	pose := sim.Pose2D{Pos2D: sim.Pos2D{X: 5, Y: 5}, Orientation: sim.AngleFromDegrees(90)}
	pose = dd.Integrate(pose, 1, 1, time.Second)
	require.InDelta(t, 5, pose.X, 1e-9)
	require.InDelta(t, 15, pose.Y, 1e-9)
	require.Equal(t, pose, dd.Integrate(pose, 1, 1, 0))
}
