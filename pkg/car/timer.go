package car

import (
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultPivotDuration is how long a turn lasts without further input.
const DefaultPivotDuration = 500 * time.Millisecond

// TurnTimer is a one-shot countdown. Expiry only fills the timer
// channel; the owner notices it by polling Expired.
type TurnTimer struct {
	Clock    clock.Clock
	Duration time.Duration

	timer *clock.Timer
}

// NewTurnTimer creates a TurnTimer.
func NewTurnTimer(clk clock.Clock, d time.Duration) *TurnTimer {
	if clk == nil {
		clk = clock.New()
	}
	if d <= 0 {
		d = DefaultPivotDuration
	}
	return &TurnTimer{Clock: clk, Duration: d}
}

// Arm (re)starts the countdown.
func (t *TurnTimer) Arm() {
	t.Cancel()
	t.timer = t.Clock.Timer(t.Duration)
}

// Cancel disarms the timer.
func (t *TurnTimer) Cancel() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Active reports whether a countdown is pending.
func (t *TurnTimer) Active() bool {
	return t.timer != nil
}

// Expired reports and clears a completed countdown.
func (t *TurnTimer) Expired() bool {
	if t.timer == nil {
		return false
	}
	select {
	case <-t.timer.C:
		t.timer = nil
		return true
	default:
		return false
	}
}
