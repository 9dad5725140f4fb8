package sim

import "math"

// Pos2D defines the position in 2D, in centimeters.
type Pos2D struct {
	X, Y float64
}

// Size2D defines the rectangular size in 2D.
type Size2D struct {
	CX, CY float64
}

// Rect defines an axis aligned rectangle in 2D.
type Rect struct {
	Pos2D
	Size2D
}

// Pose2D defines the pose in 2D.
type Pose2D struct {
	Pos2D
	Orientation Angle
}

// Angle is an angle in radians normalized to (-Pi, Pi].
type Angle float64

// AngleFromDegrees creates Angle from degrees.
func AngleFromDegrees(d float64) Angle {
	return AngleFromRadians(d * math.Pi / 180.0)
}

// AngleFromRadians creates Angle from radians.
func AngleFromRadians(r float64) Angle {
	r = math.Remainder(r, 2*math.Pi)
	if r <= -math.Pi {
		r += 2 * math.Pi
	}
	return Angle(r)
}

// AddRadians adds radians to current angle.
func (a Angle) AddRadians(r float64) Angle {
	return AngleFromRadians(float64(a) + r)
}

// Opposite points the other way.
func (a Angle) Opposite() Angle {
	return a.AddRadians(math.Pi)
}

// Radians gets angle in radians.
func (a Angle) Radians() float64 {
	return float64(a)
}

// Degrees gets angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180 / math.Pi
}

// Project projects distance into X and Y.
func (a Angle) Project(dist float64) Pos2D {
	return Pos2D{X: dist * math.Cos(float64(a)), Y: dist * math.Sin(float64(a))}
}

// Add is a helper to add Pos2D.
func (p Pos2D) Add(p1 Pos2D) Pos2D {
	return Pos2D{X: p.X + p1.X, Y: p.Y + p1.Y}
}

// Max returns the corner opposite to the origin of r.
func (r Rect) Max() Pos2D {
	return Pos2D{X: r.X + r.CX, Y: r.Y + r.CY}
}

// Contains reports whether p is inside r.
func (r Rect) Contains(p Pos2D) bool {
	max := r.Max()
	return p.X >= r.X && p.X <= max.X && p.Y >= r.Y && p.Y <= max.Y
}

// Cast returns the distance along the ray from origin in direction dir
// to r, or +Inf when the ray misses.
func (r Rect) Cast(origin Pos2D, dir Angle) float64 {
	dx, dy := math.Cos(float64(dir)), math.Sin(float64(dir))
	tmin, tmax := 0.0, math.Inf(1)
	max := r.Max()
	for _, axis := range [2]struct{ o, d, lo, hi float64 }{
		{origin.X, dx, r.X, max.X},
		{origin.Y, dy, r.Y, max.Y},
	} {
		if math.Abs(axis.d) < 1e-12 {
			if axis.o < axis.lo || axis.o > axis.hi {
				return math.Inf(1)
			}
			continue
		}
		t1, t2 := (axis.lo-axis.o)/axis.d, (axis.hi-axis.o)/axis.d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin, tmax = math.Max(tmin, t1), math.Min(tmax, t2)
		if tmin > tmax {
			return math.Inf(1)
		}
	}
	return tmin
}
