package sim

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/robotalks/rover.go/pkg/hal"
)

// DigitalOut is a recorded output line.
type DigitalOut struct {
	OnChange func(high bool)

	level atomic.Bool
	edges atomic.Uint32
}

// Out implements hal.Output.
func (o *DigitalOut) Out(high bool) error {
	if o.level.Swap(high) != high {
		o.edges.Inc()
		if fn := o.OnChange; fn != nil {
			fn(high)
		}
	}
	return nil
}

// High reports the current level.
func (o *DigitalOut) High() bool {
	return o.level.Load()
}

// Edges counts level changes.
func (o *DigitalOut) Edges() int {
	return int(o.edges.Load())
}

// DefaultPWMModulus matches a 1kHz PWM off a 12MHz timer.
const DefaultPWMModulus = 11999

// PWMChannel is a recorded PWM output.
type PWMChannel struct {
	Mod uint32

	duty atomic.Uint32
}

// NewPWMChannel creates a PWMChannel with DefaultPWMModulus.
func NewPWMChannel() *PWMChannel {
	return &PWMChannel{Mod: DefaultPWMModulus}
}

// Modulus implements hal.PWM.
func (p *PWMChannel) Modulus() uint32 {
	return p.Mod
}

// SetDuty implements hal.PWM.
func (p *PWMChannel) SetDuty(duty uint32) error {
	p.duty.Store(duty)
	return nil
}

// Duty returns the current duty value.
func (p *PWMChannel) Duty() uint32 {
	return p.duty.Load()
}

// Fraction returns duty/modulus.
func (p *PWMChannel) Fraction() float64 {
	if p.Mod == 0 {
		return 0
	}
	return float64(p.Duty()) / float64(p.Mod)
}

// HBridge is one half of a dual H-bridge driving a motor.
type HBridge struct {
	IN1, IN2 DigitalOut
	EN       *PWMChannel
}

// NewHBridge creates an HBridge.
func NewHBridge() *HBridge {
	return &HBridge{EN: NewPWMChannel()}
}

// Drive returns the signed duty fraction; coast and brake are 0.
func (h *HBridge) Drive() float64 {
	in1, in2 := h.IN1.High(), h.IN2.High()
	switch {
	case in1 && !in2:
		return h.EN.Fraction()
	case !in1 && in2:
		return -h.EN.Fraction()
	}
	return 0
}

// Lamp is a simulated head light.
type Lamp struct {
	on atomic.Bool
}

// SetLights implements hal.Lights.
func (l *Lamp) SetLights(on bool) error {
	l.on.Store(on)
	return nil
}

// On reports the lamp state.
func (l *Lamp) On() bool {
	return l.on.Load()
}

// LightLevel is a settable ambient light ADC.
type LightLevel struct {
	value atomic.Uint32
}

// Set sets the raw ADC value.
func (l *LightLevel) Set(v uint16) {
	l.value.Store(uint32(v))
}

// ReadLight implements hal.LightSensor.
func (l *LightLevel) ReadLight() uint16 {
	return uint16(l.value.Load())
}

// IRQRecorder counts masking and forwards to Target.
type IRQRecorder struct {
	Target hal.IRQ

	lock     sync.Mutex
	disabled int
	depth    int
}

// Disable implements hal.IRQ.
func (r *IRQRecorder) Disable() {
	r.lock.Lock()
	r.disabled++
	r.depth++
	r.lock.Unlock()
	if r.Target != nil {
		r.Target.Disable()
	}
}

// Enable implements hal.IRQ.
func (r *IRQRecorder) Enable() {
	r.lock.Lock()
	r.depth--
	r.lock.Unlock()
	if r.Target != nil {
		r.Target.Enable()
	}
}

// Disabled returns how many times interrupts were masked.
func (r *IRQRecorder) Disabled() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.disabled
}

// Masked reports whether interrupts are currently masked.
func (r *IRQRecorder) Masked() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.depth > 0
}
