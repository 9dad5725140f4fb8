// Package physics moves simulated bodies.
package physics

import (
	"math"
	"time"

	"github.com/robotalks/rover.go/pkg/sim"
)

// DiffDrive is a two wheeled body steered by the wheel speed difference.
type DiffDrive struct {
	// MaxSpeed is the wheel speed at full duty, in cm/s.
	MaxSpeed float64
	// Track is the distance between the wheels, in cm.
	Track float64
}

// Integrate advances pose by dt. left and right are the signed wheel
// duty fractions in [-1, 1].
func (d DiffDrive) Integrate(pose sim.Pose2D, left, right float64, dt time.Duration) sim.Pose2D {
	secs := dt.Seconds()
	if secs <= 0 {
		return pose
	}
	vl, vr := left*d.MaxSpeed, right*d.MaxSpeed
	v := (vl + vr) / 2
	var w float64
	if d.Track > 0 {
		w = (vr - vl) / d.Track
	}
	if math.Abs(w) < 1e-9 {
		pose.Pos2D = pose.Pos2D.Add(pose.Orientation.Project(v * secs))
		return pose
	}
	th0 := pose.Orientation.Radians()
	th1 := th0 + w*secs
	r := v / w
	pose.X += r * (math.Sin(th1) - math.Sin(th0))
	pose.Y -= r * (math.Cos(th1) - math.Cos(th0))
	pose.Orientation = sim.AngleFromRadians(th1)
	return pose
}
