package rover

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/rover.go/pkg/car"
	"github.com/robotalks/rover.go/pkg/drive"
	"github.com/robotalks/rover.go/pkg/l0/comm"
	"github.com/robotalks/rover.go/pkg/sensor/dht"
	"github.com/robotalks/rover.go/pkg/sensor/sonar"
)

// Config tunes the control loop.
type Config struct {
	// ObstacleCm is the distance at or below which the vehicle stops.
	ObstacleCm int
	// RearGuard enables the rear obstacle check while reversing.
	RearGuard bool
	// LightThreshold turns the lights on in auto mode when the light
	// sensor reads above it.
	LightThreshold uint
	// Speed is the initial speed percentage.
	Speed int
	// Turn is "pivot" or "half".
	Turn string
	// RightBoost trims a weaker right motor.
	RightBoost int
	// PivotDuration is how long a turn lasts.
	PivotDuration time.Duration
	// SettleMicros separates front and rear measurements.
	SettleMicros uint
	// MaxCommandsPerStep bounds the bytes decoded per iteration.
	MaxCommandsPerStep int
	// RingCapacity is the command ring size.
	RingCapacity int
	// CRC is "reject" or "report".
	CRC string
	// CheckPullUp enables the DHT idle line check.
	CheckPullUp bool
	// Interval is the loop period.
	Interval time.Duration
}

var defaultConfig = Config{
	ObstacleCm:         20,
	LightThreshold:     1500,
	Speed:              70,
	Turn:               "pivot",
	PivotDuration:      car.DefaultPivotDuration,
	SettleMicros:       sonar.SettleMicros,
	MaxCommandsPerStep: 8,
	RingCapacity:       comm.DefaultRingCapacity,
	CRC:                "reject",
	Interval:           20 * time.Millisecond,
}

func init() {
	if val := os.Getenv("ROVER_OBSTACLE_CM"); val != "" {
		if cm, err := strconv.Atoi(val); err == nil {
			defaultConfig.ObstacleCm = cm
		}
	}
	if val := os.Getenv("ROVER_REAR_GUARD"); val != "" {
		defaultConfig.RearGuard, _ = strconv.ParseBool(val)
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.ObstacleCm, "obstacle-cm", defaultConfig.ObstacleCm, "Obstacle stop distance in cm")
	flag.BoolVar(&defaultConfig.RearGuard, "rear-guard", defaultConfig.RearGuard, "Stop for obstacles while reversing")
	flag.UintVar(&defaultConfig.LightThreshold, "light-threshold", defaultConfig.LightThreshold, "Auto lights ADC threshold")
	flag.IntVar(&defaultConfig.Speed, "speed", defaultConfig.Speed, "Initial speed percentage")
	flag.StringVar(&defaultConfig.Turn, "turn", defaultConfig.Turn, "Turn policy: pivot or half")
	flag.IntVar(&defaultConfig.RightBoost, "right-boost", defaultConfig.RightBoost, "Left side trim percentage")
	flag.DurationVar(&defaultConfig.PivotDuration, "pivot", defaultConfig.PivotDuration, "Turn duration")
	flag.StringVar(&defaultConfig.CRC, "dht-crc", defaultConfig.CRC, "DHT checksum policy: reject or report")
	flag.BoolVar(&defaultConfig.CheckPullUp, "dht-pullup-check", defaultConfig.CheckPullUp, "Check DHT line pull-up before reads")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Control loop period")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// TurnPolicy parses Turn.
func (c *Config) TurnPolicy() (drive.TurnPolicy, error) {
	switch c.Turn {
	case "", "pivot":
		return drive.Pivot, nil
	case "half":
		return drive.HalfInner, nil
	}
	return drive.Pivot, fmt.Errorf("unknown turn policy: %q", c.Turn)
}

// CRCPolicy parses CRC.
func (c *Config) CRCPolicy() (dht.CRCPolicy, error) {
	switch c.CRC {
	case "", "reject":
		return dht.RejectOnBadCRC, nil
	case "report":
		return dht.ReportOnBadCRC, nil
	}
	return dht.RejectOnBadCRC, fmt.Errorf("unknown checksum policy: %q", c.CRC)
}
