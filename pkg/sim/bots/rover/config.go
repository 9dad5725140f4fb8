package rover

import (
	"flag"

	"github.com/robotalks/rover.go/pkg/sim"
	"github.com/robotalks/rover.go/pkg/sim/physics"
)

// Config defines the simulated world.
type Config struct {
	Length   float64
	Width    float64
	MaxSpeed float64
	ArenaW   float64
	ArenaH   float64
}

// Defaults
const (
	DefaultLength   float64 = 25
	DefaultWidth    float64 = 15
	DefaultMaxSpeed float64 = 60
	DefaultArena    float64 = 300
	// WallThickness is the thickness of the arena walls.
	WallThickness float64 = 5
)

var defaultConfig = Config{
	Length:   DefaultLength,
	Width:    DefaultWidth,
	MaxSpeed: DefaultMaxSpeed,
	ArenaW:   DefaultArena,
	ArenaH:   DefaultArena,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.Length, "bot-length", defaultConfig.Length, "Length (cm) of the vehicle.")
	flag.Float64Var(&defaultConfig.Width, "bot-width", defaultConfig.Width, "Width (cm) of the vehicle, also the wheel track.")
	flag.Float64Var(&defaultConfig.MaxSpeed, "bot-speed-max", defaultConfig.MaxSpeed, "Wheel speed (cm/s) at full duty.")
	flag.Float64Var(&defaultConfig.ArenaW, "arena-w", defaultConfig.ArenaW, "Width (cm) of the arena.")
	flag.Float64Var(&defaultConfig.ArenaH, "arena-h", defaultConfig.ArenaH, "Height (cm) of the arena.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Arena returns the four walls of a w by h arena centered at the origin.
func Arena(w, h float64) []sim.Rect {
	t := WallThickness
	return []sim.Rect{
		{Pos2D: sim.Pos2D{X: -w/2 - t, Y: -h/2 - t}, Size2D: sim.Size2D{CX: w + 2*t, CY: t}},
		{Pos2D: sim.Pos2D{X: -w/2 - t, Y: h / 2}, Size2D: sim.Size2D{CX: w + 2*t, CY: t}},
		{Pos2D: sim.Pos2D{X: -w/2 - t, Y: -h / 2}, Size2D: sim.Size2D{CX: t, CY: h}},
		{Pos2D: sim.Pos2D{X: w / 2, Y: -h / 2}, Size2D: sim.Size2D{CX: t, CY: h}},
	}
}

// NewWorld creates the World for r, placed at the arena center facing +X.
func (c *Config) NewWorld(r *sim.Rover) *World {
	w := NewWorld(r)
	w.Outline.CX, w.Outline.CY = c.Length, c.Width
	w.Outline.X, w.Outline.Y = -c.Length/2, -c.Width/2
	w.Drive = physics.DiffDrive{MaxSpeed: c.MaxSpeed, Track: c.Width}
	w.Walls = Arena(c.ArenaW, c.ArenaH)
	return w
}
