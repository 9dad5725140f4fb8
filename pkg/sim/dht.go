package sim

import (
	"sync"
	"time"
)

// DHT11 single-wire timing.
const (
	DHTStartMin     = 18 * time.Millisecond
	DHTResponseWait = 20 * time.Microsecond
	DHTAckLow       = 80 * time.Microsecond
	DHTAckHigh      = 80 * time.Microsecond
	DHTBitLow       = 50 * time.Microsecond
	DHTBitHighZero  = 26 * time.Microsecond
	DHTBitHighOne   = 70 * time.Microsecond
)

// DHTFault injects a failure into the simulated sensor.
type DHTFault int

// Faults.
const (
	DHTHealthy DHTFault = iota
	// DHTNoPullUp holds the released line low.
	DHTNoPullUp
	// DHTSilent never answers the start pulse.
	DHTSilent
	// DHTAckStuckLow never releases the first ack phase.
	DHTAckStuckLow
	// DHTAckStuckHigh never starts the data after the ack.
	DHTAckStuckHigh
	// DHTDataStuckLow holds the line low at bit FaultBit.
	DHTDataStuckLow
	// DHTDataStuckHigh holds the line high at bit FaultBit.
	DHTDataStuckHigh
)

type segment struct {
	end  time.Duration
	high bool
}

// DHT11 models the sensor side of the single-wire bus. It implements
// hal.Pin for the host.
type DHT11 struct {
	Timeline *Timeline
	Data     [5]byte
	Fault    DHTFault
	FaultBit int

	lock     sync.Mutex
	driven   bool
	level    bool
	lowStart time.Duration
	lowFor   time.Duration
	start    time.Duration
	wave     []segment
	reads    int
}

// NewDHT11 creates a sensor reporting the given readings; the checksum
// is computed.
func NewDHT11(tl *Timeline, humInt, humFrac, tempInt, tempFrac byte) *DHT11 {
	d := &DHT11{Timeline: tl}
	d.Set(humInt, humFrac, tempInt, tempFrac)
	return d
}

// Set changes the readings.
func (d *DHT11) Set(humInt, humFrac, tempInt, tempFrac byte) {
	d.lock.Lock()
	d.Data = [5]byte{humInt, humFrac, tempInt, tempFrac, humInt + humFrac + tempInt + tempFrac}
	d.lock.Unlock()
}

// Transfers counts answered start pulses.
func (d *DHT11) Transfers() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.reads
}

// Output implements hal.Pin.
func (d *DHT11) Output(high bool) error {
	now := d.Timeline.Now()
	d.lock.Lock()
	defer d.lock.Unlock()
	if !high && (!d.driven || d.level) {
		d.lowStart = now
	}
	if high && d.driven && !d.level {
		d.lowFor = now - d.lowStart
	}
	d.driven, d.level = true, high
	d.wave = nil
	return nil
}

// Input implements hal.Pin.
func (d *DHT11) Input() error {
	now := d.Timeline.Now()
	d.lock.Lock()
	defer d.lock.Unlock()
	d.driven = false
	if d.lowFor >= DHTStartMin {
		d.lowFor = 0
		d.start = now
		d.wave = d.waveform()
		d.reads++
	}
	return nil
}

// Read implements hal.Pin.
func (d *DHT11) Read() bool {
	now := d.Timeline.Now()
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.driven {
		return d.level
	}
	if d.Fault == DHTNoPullUp {
		return false
	}
	at := now - d.start
	for _, seg := range d.wave {
		if at < seg.end {
			return seg.high
		}
	}
	return true
}

func (d *DHT11) waveform() []segment {
	var wave []segment
	var t time.Duration
	add := func(dur time.Duration, high bool) {
		t += dur
		wave = append(wave, segment{end: t, high: high})
	}
	forever := func(high bool) []segment {
		return append(wave, segment{end: 1 << 62, high: high})
	}
	switch d.Fault {
	case DHTSilent, DHTNoPullUp:
		return nil
	}
	add(DHTResponseWait, true)
	if d.Fault == DHTAckStuckLow {
		return forever(false)
	}
	add(DHTAckLow, false)
	if d.Fault == DHTAckStuckHigh {
		return forever(true)
	}
	add(DHTAckHigh, true)
	for n := 0; n < 40; n++ {
		if n == d.FaultBit {
			switch d.Fault {
			case DHTDataStuckLow:
				return forever(false)
			case DHTDataStuckHigh:
				add(DHTBitLow, false)
				return forever(true)
			}
		}
		add(DHTBitLow, false)
		if d.Data[n/8]&(0x80>>uint(n%8)) != 0 {
			add(DHTBitHighOne, true)
		} else {
			add(DHTBitHighZero, true)
		}
	}
	add(DHTBitLow, false)
	return wave
}
