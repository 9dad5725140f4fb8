// Package rover places a simulated vehicle in a world of walls.
package rover

import (
	"math"
	"strconv"
	"time"

	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/sim"
	"github.com/robotalks/rover.go/pkg/sim/physics"
	"github.com/robotalks/rover.go/pkg/sim/visualization/see"
)

// World moves the simulated vehicle and feeds its rangers.
type World struct {
	Rover *sim.Rover
	Drive physics.DiffDrive
	// Outline is the vehicle body centered at the origin, facing +X.
	Outline sim.Rect
	Pose    sim.Pose2D
	Walls   []sim.Rect

	last    time.Time
	lights  bool
	changed bool
	bumps   int
}

// NewWorld creates a World.
func NewWorld(r *sim.Rover) *World {
	return &World{Rover: r, changed: true}
}

// AddToLoop implements LoopAdder.
func (w *World) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, fx.ControlFunc(w.Simulate))
}

// Simulate is a controller advancing the world to the iteration time.
func (w *World) Simulate(cc fx.ControlContext) error {
	w.Update(cc.Time())
	return nil
}

// Update moves the vehicle by the motor duty since the last update and
// refreshes the ranger distances.
func (w *World) Update(now time.Time) {
	if !w.last.IsZero() {
		left, right := w.Rover.Left.Drive(), w.Rover.Right.Drive()
		if dt := now.Sub(w.last); dt > 0 && (left != 0 || right != 0) {
			w.move(left, right, dt)
		}
	}
	w.last = now
	if on := w.Rover.Lamp.On(); on != w.lights {
		w.lights, w.changed = on, true
	}
	w.Rover.Front.SetDistance(w.cast(w.Pose.Orientation))
	w.Rover.Rear.SetDistance(w.cast(w.Pose.Orientation.Opposite()))
}

// move advances in steps of at most 1cm per wheel so walls can't be
// tunneled through, and stops at the first blocked step.
func (w *World) move(left, right float64, dt time.Duration) {
	travel := math.Max(math.Abs(left), math.Abs(right)) * w.Drive.MaxSpeed * dt.Seconds()
	steps := int(math.Ceil(travel))
	if steps < 1 {
		steps = 1
	}
	start := w.Pose
	for n := 1; n <= steps; n++ {
		pose := w.Drive.Integrate(start, left, right, dt*time.Duration(n)/time.Duration(steps))
		if w.collides(pose) {
			w.bumps++
			return
		}
		w.Pose, w.changed = pose, true
	}
}

// Bumps counts the moves blocked by a wall.
func (w *World) Bumps() int {
	return w.bumps
}

// cast returns the distance from the body edge to the nearest wall.
func (w *World) cast(dir sim.Angle) float64 {
	origin := w.Pose.Pos2D.Add(dir.Project(w.Outline.CX / 2))
	dist := math.Inf(1)
	for _, wall := range w.Walls {
		dist = math.Min(dist, wall.Cast(origin, dir))
	}
	return dist
}

func (w *World) collides(pose sim.Pose2D) bool {
	for _, corner := range w.corners(pose) {
		for _, wall := range w.Walls {
			if wall.Contains(corner) {
				return true
			}
		}
	}
	return false
}

func (w *World) corners(pose sim.Pose2D) [4]sim.Pos2D {
	hx, hy := w.Outline.CX/2, w.Outline.CY/2
	side := pose.Orientation.AddRadians(math.Pi / 2)
	fwd := pose.Orientation
	var c [4]sim.Pos2D
	for n, s := range [4][2]float64{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}} {
		c[n] = pose.Pos2D.Add(fwd.Project(s[0] * hx)).Add(side.Project(s[1] * hy))
	}
	return c
}

// Changed implements see.Scene.
func (w *World) Changed() bool {
	changed := w.changed
	w.changed = false
	return changed
}

// Bodies implements see.Scene.
func (w *World) Bodies() []see.Body {
	bodies := []see.Body{{
		ID:      "rover",
		Type:    "rover",
		Outline: w.Outline,
		Pose:    w.Pose,
		Props:   map[string]interface{}{"lights": w.lights},
	}}
	for n, wall := range w.Walls {
		bodies = append(bodies, see.Body{
			ID:      "wall-" + strconv.Itoa(n),
			Type:    "wall",
			Outline: wall,
			Static:  true,
		})
	}
	return bodies
}

