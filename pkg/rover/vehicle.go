// Package rover assembles the vehicle and runs its control loop.
package rover

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"

	"github.com/robotalks/rover.go/pkg/car"
	"github.com/robotalks/rover.go/pkg/drive"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/hal"
	"github.com/robotalks/rover.go/pkg/l0/comm"
	"github.com/robotalks/rover.go/pkg/sensor/dht"
	"github.com/robotalks/rover.go/pkg/sensor/sonar"
	"github.com/robotalks/rover.go/pkg/telemetry"
)

// Hardware is everything the vehicle is wired to.
type Hardware struct {
	// SonarClock times the ultrasonic echoes, DHTClock the DHT bits.
	SonarClock *hal.Clock
	DHTClock   *hal.Clock

	Trigger   hal.Output
	FrontEcho hal.Line
	// RearEcho is optional.
	RearEcho hal.Line
	DHTLine  hal.Pin

	Left, Right *drive.Motor

	// Lights and LightSensor are optional.
	Lights      hal.Lights
	LightSensor hal.LightSensor
}

// LightsMode is the lights setting.
type LightsMode int

// Lights modes.
const (
	LightsOff LightsMode = iota
	LightsOn
	LightsAuto
)

func (m LightsMode) String() string {
	switch m {
	case LightsOff:
		return "OFF"
	case LightsOn:
		return "ON"
	case LightsAuto:
		return "AUTO"
	}
	return fmt.Sprintf("LightsMode(%d)", int(m))
}

// Status is the externally visible vehicle status.
type Status struct {
	State    car.State
	Speed    int
	Lights   LightsMode
	LightsOn bool
	Dropped  uint32
}

// StatusSink receives the status whenever it changes.
type StatusSink interface {
	PublishStatus(ctx context.Context, st Status) error
}

// Vehicle owns all components of one vehicle.
type Vehicle struct {
	Config   Config
	Clock    clock.Clock
	Channel  *comm.Channel
	Receiver *comm.Receiver
	Sonar    *sonar.Sensor
	DHT      *dht.Sensor
	Drive    *drive.Drive
	Machine  *car.Machine
	Reporter *telemetry.Reporter
	Sinks    []StatusSink

	lights      hal.Lights
	lightSensor hal.LightSensor
	lightsMode  LightsMode
	lightsOn    bool
	dhtNext     time.Time
	status      Status
	mirrored    bool
}

// New assembles a Vehicle. Telemetry goes to out; clk paces the turn
// timer and the DHT rate limit.
func New(conf *Config, hw *Hardware, out io.Writer, clk clock.Clock) (*Vehicle, error) {
	if hw.SonarClock == nil || hw.Trigger == nil || hw.FrontEcho == nil {
		return nil, fmt.Errorf("front ranger is not wired")
	}
	if hw.DHTClock == nil || hw.DHTLine == nil {
		return nil, fmt.Errorf("DHT sensor is not wired")
	}
	if hw.Left == nil || hw.Right == nil {
		return nil, fmt.Errorf("motors are not wired")
	}
	turn, err := conf.TurnPolicy()
	if err != nil {
		return nil, err
	}
	crc, err := conf.CRCPolicy()
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}

	v := &Vehicle{
		Config:      *conf,
		Clock:       clk,
		Channel:     comm.NewChannel(conf.RingCapacity),
		Reporter:    telemetry.NewReporter(out),
		lights:      hw.Lights,
		lightSensor: hw.LightSensor,
	}
	if v.Config.MaxCommandsPerStep <= 0 {
		v.Config.MaxCommandsPerStep = defaultConfig.MaxCommandsPerStep
	}
	v.Receiver = comm.NewReceiver(v.Channel)
	v.Sonar = sonar.New(hw.SonarClock, hw.Trigger, hw.FrontEcho, hw.RearEcho)
	v.DHT = dht.New(hw.DHTClock, hw.DHTLine, v.Channel)
	v.DHT.Policy = crc
	v.DHT.CheckPullUp = conf.CheckPullUp

	v.Drive = drive.New(hw.Left, hw.Right)
	v.Drive.Turn = turn
	v.Drive.RightBoost = conf.RightBoost
	v.Drive.SetDefaultSpeed(conf.Speed)

	v.Machine = car.New(v.Drive, car.NewTurnTimer(clk, conf.PivotDuration), v.Drive.DefaultSpeed())
	v.Machine.RearGuard = conf.RearGuard && v.Sonar.Has(sonar.Rear)
	v.Machine.Notifier = v.Reporter
	return v, nil
}

// AddSource adds a command link.
func (v *Vehicle) AddSource(r io.Reader) {
	v.Receiver.Sources = append(v.Receiver.Sources, r)
}

// AddSink adds a status sink.
func (v *Vehicle) AddSink(s StatusSink) {
	v.Sinks = append(v.Sinks, s)
}

// Init brings the peripherals into their idle state and stops the motors.
func (v *Vehicle) Init() error {
	if err := v.Sonar.Init(); err != nil {
		return fmt.Errorf("sonar init error: %v", err)
	}
	if err := v.DHT.Idle(); err != nil {
		return fmt.Errorf("DHT init error: %v", err)
	}
	v.dhtNext = v.Clock.Now().Add(dht.StabilizeMillis * time.Millisecond)
	v.setLights(false)
	v.Machine.Stop()
	return nil
}

// AddToLoop implements fx.LoopAdder.
func (v *Vehicle) AddToLoop(loop *fx.Loop) {
	if v.Config.Interval > 0 {
		loop.Interval = v.Config.Interval
	}
	loop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		v.Step(cc.Context())
		return nil
	}))
	loop.AddRunnable(v.Receiver)
}

// Status returns the current status.
func (v *Vehicle) Status() Status {
	return Status{
		State:    v.Machine.State(),
		Speed:    v.Machine.Speed(),
		Lights:   v.lightsMode,
		LightsOn: v.lightsOn,
		Dropped:  v.Channel.Dropped(),
	}
}

// Step runs one control iteration: decode commands, check obstacles,
// drive the state machine, poll the turn timer, run auto lights and
// mirror the status.
func (v *Vehicle) Step(ctx context.Context) {
	ev := v.decode()
	ev, smp, hit := v.guard(ev)
	v.Machine.Handle(ev)
	if hit {
		v.Reporter.Obstacle(smp.DistanceCm)
	}
	v.Machine.Poll()
	v.autoLights()
	v.mirror(ctx)
}

func (v *Vehicle) decode() car.Event {
	ev := car.EventNone
	for n := 0; n < v.Config.MaxCommandsPerStep; n++ {
		cmd, ok := v.Channel.Poll()
		if !ok {
			break
		}
		if e := movementEvent(cmd.Kind); e != car.EventNone {
			ev = e
			continue
		}
		v.execute(cmd)
	}
	return ev
}

func movementEvent(kind comm.Kind) car.Event {
	switch kind {
	case comm.Forward:
		return car.CmdForward
	case comm.Backward:
		return car.CmdBackward
	case comm.Left:
		return car.CmdLeft
	case comm.Right:
		return car.CmdRight
	case comm.Stop:
		return car.CmdStop
	}
	return car.EventNone
}

func (v *Vehicle) execute(cmd comm.Command) {
	switch cmd.Kind {
	case comm.SetSpeed:
		v.Machine.SetSpeed(cmd.Speed)
		v.Reporter.Speed(v.Machine.Speed())
	case comm.LightsOn:
		v.setLightsMode(LightsOn)
	case comm.LightsOff:
		v.setLightsMode(LightsOff)
	case comm.LightsAuto:
		if v.lightsMode == LightsAuto {
			v.setLightsMode(LightsOff)
		} else {
			v.setLightsMode(LightsAuto)
		}
	case comm.GetTemp:
		if smp, ok := v.readEnv(); ok {
			v.Reporter.Temperature(smp)
		}
	case comm.GetHumidity:
		if smp, ok := v.readEnv(); ok {
			v.Reporter.Humidity(smp)
		}
	case comm.GetDistance:
		v.reportDistances()
	case comm.GetInfo:
		v.info()
	case comm.Unknown:
		glog.V(2).Info(cmd.Err())
		v.Reporter.Unknown(cmd.Raw)
	}
}

// guard checks the ranger facing the current heading; a hit becomes
// Obstacle and wins over ev. A command heading into an obstacle is
// refused.
func (v *Vehicle) guard(ev car.Event) (car.Event, sonar.Sample, bool) {
	state := v.Machine.State()
	if id, ok := v.guardedBy(state); ok {
		if smp := v.Sonar.Measure(id); smp.Within(v.Config.ObstacleCm) {
			glog.V(2).Infof("%v obstacle at %d cm in %v", id, smp.DistanceCm, state)
			return car.Obstacle, smp, true
		}
	}
	var target car.State
	switch ev {
	case car.CmdForward:
		target = car.Forward
	case car.CmdBackward:
		target = car.Backward
	default:
		return ev, sonar.Sample{}, false
	}
	id, ok := v.guardedBy(target)
	if !ok || target == state {
		return ev, sonar.Sample{}, false
	}
	smp := v.Sonar.Measure(id)
	if !smp.Within(v.Config.ObstacleCm) {
		return ev, smp, false
	}
	glog.V(2).Infof("%v refused, %v obstacle at %d cm", ev, id, smp.DistanceCm)
	if state.IsMoving() {
		return car.CmdStop, smp, true
	}
	return car.EventNone, smp, true
}

func (v *Vehicle) guardedBy(s car.State) (sonar.SensorID, bool) {
	switch {
	case s == car.Forward:
		return sonar.Front, true
	case s == car.Backward && v.Machine.RearGuard:
		return sonar.Rear, true
	}
	return sonar.Front, false
}

func (v *Vehicle) readEnv() (dht.Sample, bool) {
	now := v.Clock.Now()
	if now.Before(v.dhtNext) {
		v.Reporter.Busy()
		return dht.Sample{}, false
	}
	smp := v.DHT.Read()
	v.dhtNext = v.Clock.Now().Add(dht.MinInterval)
	return smp, true
}

func (v *Vehicle) reportDistances() {
	front, rear := v.Sonar.Both(uint32(v.Config.SettleMicros))
	v.Reporter.Distance(sonar.Front, front)
	if v.Sonar.Has(sonar.Rear) {
		v.Reporter.Distance(sonar.Rear, rear)
	}
}

func (v *Vehicle) info() {
	v.Reporter.State(v.Machine.State())
	v.Reporter.Speed(v.Machine.Speed())
	v.reportDistances()
	v.Reporter.Light(v.readLight())
	v.Reporter.Lights(v.lightsMode)
	if smp, ok := v.readEnv(); ok {
		v.Reporter.Temperature(smp)
		if smp.Status == dht.OK {
			v.Reporter.Humidity(smp)
		}
	}
}

func (v *Vehicle) readLight() uint16 {
	if v.lightSensor == nil {
		return 0
	}
	return v.lightSensor.ReadLight()
}

func (v *Vehicle) setLightsMode(mode LightsMode) {
	v.lightsMode = mode
	switch mode {
	case LightsOn:
		v.setLights(true)
	case LightsOff:
		v.setLights(false)
	case LightsAuto:
		v.autoLights()
	}
	v.Reporter.Lights(mode)
}

func (v *Vehicle) autoLights() {
	if v.lightsMode != LightsAuto || v.lightSensor == nil {
		return
	}
	on := uint(v.lightSensor.ReadLight()) > v.Config.LightThreshold
	if on != v.lightsOn {
		v.setLights(on)
	}
}

func (v *Vehicle) setLights(on bool) {
	v.lightsOn = on
	if v.lights == nil {
		return
	}
	if err := v.lights.SetLights(on); err != nil {
		glog.Errorf("lights error: %v", err)
	}
}

func (v *Vehicle) mirror(ctx context.Context) {
	st := v.Status()
	if v.mirrored && st == v.status {
		return
	}
	v.status, v.mirrored = st, true
	for _, sink := range v.Sinks {
		if err := sink.PublishStatus(ctx, st); err != nil {
			glog.Warningf("status publish error: %v", err)
		}
	}
}
