// Package telemetry writes the human-readable status lines sent back to
// the operator.
package telemetry

import (
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/car"
	"github.com/robotalks/rover.go/pkg/sensor/dht"
	"github.com/robotalks/rover.go/pkg/sensor/sonar"
)

// EOL terminates every line.
const EOL = "\r\n"

// Reporter writes telemetry lines to a link.
type Reporter struct {
	Writer io.Writer

	lock sync.Mutex
}

// NewReporter creates a Reporter. A nil writer discards everything.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{Writer: w}
}

// Line writes one formatted line.
func (r *Reporter) Line(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...) + EOL
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, err := io.WriteString(r.Writer, line); err != nil {
		glog.Warningf("telemetry write error: %v", err)
	}
}

// StateChanged implements car.Notifier.
func (r *Reporter) StateChanged(s car.State) {
	r.Line(">> State: %s", s)
}

// Obstacle reports an obstacle stop.
func (r *Reporter) Obstacle(cm int) {
	r.Line("!! OBSTACLE at %d cm - STOPPED !!", cm)
}

// State reports the current state.
func (r *Reporter) State(s car.State) {
	r.Line("State: %s", s)
}

// Speed reports the current speed.
func (r *Reporter) Speed(pct int) {
	r.Line("Speed: %d%%", pct)
}

// Distance reports a range sample.
func (r *Reporter) Distance(id sonar.SensorID, s sonar.Sample) {
	label := "Front"
	if id == sonar.Rear {
		label = "Rear"
	}
	if s.Valid {
		r.Line("%s: %d cm", label, s.DistanceCm)
	} else {
		r.Line("%s: -- (no echo)", label)
	}
}

// Temperature reports the temperature of a sample, or its error.
func (r *Reporter) Temperature(s dht.Sample) {
	if s.Status != dht.OK {
		r.SensorError(s.Status)
		return
	}
	r.Line("Temp: %s C", dht.FormatCenti(s.TemperatureCenti))
}

// Humidity reports the humidity of a sample, or its error.
func (r *Reporter) Humidity(s dht.Sample) {
	if s.Status != dht.OK {
		r.SensorError(s.Status)
		return
	}
	r.Line("Humidity: %s %%", dht.FormatCenti(s.HumidityCenti))
}

// SensorError reports a failed environmental read.
func (r *Reporter) SensorError(code dht.ErrorCode) {
	r.Line("DHT error: %s", code)
}

// Busy reports a rate-limited environmental read.
func (r *Reporter) Busy() {
	r.Line("DHT: BUSY")
}

// Light reports the ambient light level.
func (r *Reporter) Light(level uint16) {
	r.Line("Light: %d", level)
}

// Lights reports the lights mode.
func (r *Reporter) Lights(mode fmt.Stringer) {
	r.Line("Lights: %s", mode)
}

// Unknown echoes an unrecognized command byte.
func (r *Reporter) Unknown(raw byte) {
	r.Line("?? Unknown command: '%c'", raw)
}
