package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"os"

	"github.com/benbjohnson/clock"

	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/l1"
	env "github.com/robotalks/rover.go/pkg/l1/env/vehicle"
	"github.com/robotalks/rover.go/pkg/rover"
	"github.com/robotalks/rover.go/pkg/sim"
	bot "github.com/robotalks/rover.go/pkg/sim/bots/rover"
	"github.com/robotalks/rover.go/pkg/sim/visualization/see"
)

func init() {
	env.SetVehicleType("rover-sim", l1.VehicleMeta{Description: "Simulation: rover in an arena"})
	env.SetupFlags()
	rover.SetupFlags()
	bot.SetupFlags()
	see.SetupFlags()
}

func main() {
	flag.Parse()

	wall := clock.New()
	hw := sim.NewRover(sim.NewWallTimeline(wall))
	world := bot.NewConfig().NewWorld(hw)
	seeConf := see.NewConfig()

	envConf := env.NewConfig()
	if !envConf.HasLink() {
		envConf.Stdio = true
	}
	if seeConf.Enabled {
		// stdout carries the visualization.
		envConf.Stdout = os.Stderr
	}
	e := envConf.MustNewEnv()
	defer e.Close()

	v, err := rover.New(rover.NewConfig(), rover.SimHardware(hw), e.Telemetry(), wall)
	if err != nil {
		log.Fatalln(err)
	}
	e.Attach(v)
	if err := v.Init(); err != nil {
		log.Fatalln(err)
	}

	loop := fx.NewLoop().Add(e, world, v)
	if seeConf.Enabled {
		loop.Add(seeConf.NewAdapter(world))
	}
	loop.RunOrFail()
}
