package sim

import (
	"math"
	"sync"
	"time"
)

// HC-SR04 behavior.
const (
	// EchoLatency is the delay from trigger release to echo rise.
	EchoLatency = 450 * time.Microsecond
	// EchoNoTarget is the echo width when nothing reflects.
	EchoNoTarget = 38 * time.Millisecond
	// EchoPerCm is the echo width per centimeter of distance.
	EchoPerCm = 58 * time.Microsecond
	// RangerMaxCm is the farthest target producing a real echo.
	RangerMaxCm = 450
	// TriggerMinPulse is the shortest trigger pulse a ranger reacts to.
	TriggerMinPulse = 8 * time.Microsecond
)

// Ranger models an ultrasonic ranger's echo line.
type Ranger struct {
	Timeline *Timeline
	// Distance returns the target distance in cm; NaN means no ranger
	// response at all.
	Distance func() float64
	// StuckHigh keeps the echo asserted forever.
	StuckHigh bool

	lock  sync.Mutex
	rise  time.Duration
	fall  time.Duration
	pings int
}

// NewRanger creates a Ranger reporting a fixed distance.
func NewRanger(tl *Timeline, cm float64) *Ranger {
	r := &Ranger{Timeline: tl}
	r.SetDistance(cm)
	return r
}

// SetDistance fixes the target distance.
func (r *Ranger) SetDistance(cm float64) {
	r.lock.Lock()
	r.Distance = func() float64 { return cm }
	r.lock.Unlock()
}

// Pings counts trigger pulses seen.
func (r *Ranger) Pings() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.pings
}

// Read implements hal.Line.
func (r *Ranger) Read() bool {
	if r.StuckHigh {
		return true
	}
	now := r.Timeline.Now()
	r.lock.Lock()
	defer r.lock.Unlock()
	return now >= r.rise && now < r.fall
}

func (r *Ranger) fire(at time.Duration) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.pings++
	if at < r.fall {
		// still echoing, ignored by the ranger.
		return
	}
	cm := math.NaN()
	if r.Distance != nil {
		cm = r.Distance()
	}
	if math.IsNaN(cm) {
		return
	}
	width := EchoNoTarget
	if cm >= 0 && cm <= RangerMaxCm {
		width = time.Duration(cm * float64(EchoPerCm))
	}
	r.rise = at + EchoLatency
	r.fall = r.rise + width
}

// TriggerLine is the trigger output shared by several rangers.
type TriggerLine struct {
	Timeline *Timeline
	Rangers  []*Ranger

	lock   sync.Mutex
	high   bool
	riseAt time.Duration
}

// Out implements hal.Output.
func (t *TriggerLine) Out(high bool) error {
	now := t.Timeline.Now()
	t.lock.Lock()
	was := t.high
	t.high = high
	riseAt := t.riseAt
	if high && !was {
		t.riseAt = now
	}
	t.lock.Unlock()
	if was && !high && now-riseAt >= TriggerMinPulse {
		for _, r := range t.Rangers {
			r.fire(now)
		}
	}
	return nil
}
