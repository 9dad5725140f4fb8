// Package vehicle sets up the remote links of a vehicle from flags and
// environment variables.
package vehicle

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/golang/glog"

	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/l0/comm"
	"github.com/robotalks/rover.go/pkg/l1"
	"github.com/robotalks/rover.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/rover.go/pkg/l1/comm/serial"
	"github.com/robotalks/rover.go/pkg/l1/comm/websocket"
	"github.com/robotalks/rover.go/pkg/l1/env"
	"github.com/robotalks/rover.go/pkg/l1/status"
	"github.com/robotalks/rover.go/pkg/rover"
	"github.com/robotalks/rover.go/pkg/telemetry"
)

// Config selects the links of a vehicle.
type Config struct {
	Info l1.VehicleInfo

	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// Serial is DEVICE[@BAUD] of a UART or Bluetooth SPP port.
	Serial string
	// WebsocketAddr is the listen address of the websocket link.
	WebsocketAddr string
	// RedisAddr enables the status mirror.
	RedisAddr string
	// Stdio links stdin and Stdout.
	Stdio bool
	// Stdout receives the telemetry of the stdio link, os.Stdout if nil.
	Stdout io.Writer
	// Transcript records all telemetry.
	Transcript telemetry.TranscriptConfig
}

var defaultConfig = Config{
	Info: l1.VehicleInfo{Ref: l1.VehicleRef{Type: "rover"}},
}

func init() {
	if val := os.Getenv("ROVER_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("ROVER_SERIAL"); val != "" {
		defaultConfig.Serial = val
	}
	if val := os.Getenv("ROVER_REDIS"); val != "" {
		defaultConfig.RedisAddr = val
	}
	if val := os.Getenv("ROVER_ID"); val != "" {
		defaultConfig.Info.Ref.ID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.Type, "type", defaultConfig.Info.Ref.Type, "Vehicle type")
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Vehicle ID, defaults to machine ID")
	flag.StringVar(&defaultConfig.Info.Meta.Description, "desc", defaultConfig.Info.Meta.Description, "Vehicle description")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.Serial, "serial", defaultConfig.Serial, "Serial link DEVICE[@BAUD]")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Websocket link listen address")
	flag.StringVar(&defaultConfig.RedisAddr, "redis", defaultConfig.RedisAddr, "Redis address for the status mirror")
	flag.BoolVar(&defaultConfig.Stdio, "stdio", defaultConfig.Stdio, "Link stdin/stdout")
	flag.StringVar(&defaultConfig.Transcript.Filename, "transcript", defaultConfig.Transcript.Filename, "Telemetry transcript file")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// SetVehicleType should be called in init with basic info about the vehicle.
func SetVehicleType(typ string, meta l1.VehicleMeta) {
	defaultConfig.Info.Ref.Type = typ
	defaultConfig.Info.Meta = meta
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Env is the set of opened links.
type Env struct {
	Config *Config
	// Links carry command bytes in and telemetry out.
	Links []io.ReadWriter
	Sinks []rover.StatusSink

	transcript io.WriteCloser
	adders     []fx.LoopAdder
}

// HasLink reports whether any link is configured.
func (c *Config) HasLink() bool {
	return c.Stdio || c.Serial != "" || c.MQTTBrokerURL != "" || c.WebsocketAddr != ""
}

// NewEnv opens the configured links.
func (c *Config) NewEnv() (*Env, error) {
	if c.Info.Ref.ID == "" {
		c.Info.Ref.ID = env.MachineID()
	}
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("invalid vehicle name %q", c.Info.Ref.Name())
	}
	e := &Env{Config: c}
	if c.Stdio {
		out := c.Stdout
		if out == nil {
			out = os.Stdout
		}
		e.Links = append(e.Links, struct {
			io.Reader
			io.Writer
		}{os.Stdin, out})
	}
	if c.Serial != "" {
		spec, err := serial.ParseSpec(c.Serial)
		if err != nil {
			return nil, err
		}
		port, err := serial.Open(spec)
		if err != nil {
			return nil, err
		}
		glog.Infof("serial link on %s", spec)
		e.Links = append(e.Links, port)
	}
	if c.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %v", err)
		}
		e.Links = append(e.Links, reg.Link)
		e.adders = append(e.adders, reg)
	}
	if c.WebsocketAddr != "" {
		ws := websocket.NewServer(c.WebsocketAddr)
		e.Links = append(e.Links, ws)
		e.adders = append(e.adders, ws)
	}
	if len(e.Links) == 0 {
		return nil, comm.ErrNoLink
	}
	if c.RedisAddr != "" {
		mirror := status.NewMirror(c.RedisAddr, c.Info.Ref)
		e.Sinks = append(e.Sinks, mirror)
		e.adders = append(e.adders, mirror)
	}
	e.transcript = telemetry.NewTranscript(c.Transcript)
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

// Telemetry is the writer feeding all links and the transcript.
func (e *Env) Telemetry() io.Writer {
	writers := make([]io.Writer, 0, len(e.Links)+1)
	for _, link := range e.Links {
		writers = append(writers, link)
	}
	if e.transcript != nil {
		writers = append(writers, e.transcript)
	}
	return telemetry.Tee(writers...)
}

// Attach feeds the links and status sinks to the vehicle.
func (e *Env) Attach(v *rover.Vehicle) {
	for _, link := range e.Links {
		v.AddSource(link)
	}
	for _, sink := range e.Sinks {
		v.AddSink(sink)
	}
}

// Close closes the transcript.
func (e *Env) Close() error {
	if e.transcript != nil {
		return e.transcript.Close()
	}
	return nil
}

// AddToLoop adds link runners to loop.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.adders...)
}
