package main

import (
	"flag"
	"log"
	"os"

	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/hal/periph"
	"github.com/robotalks/rover.go/pkg/l1"
	env "github.com/robotalks/rover.go/pkg/l1/env/vehicle"
	"github.com/robotalks/rover.go/pkg/rover"
)

var hwConfig string

func init() {
	env.SetVehicleType("rover", l1.VehicleMeta{Description: "Remotely operated rover"})
	env.SetupFlags()
	rover.SetupFlags()
	if val := os.Getenv("ROVER_HW_CONFIG"); val != "" {
		hwConfig = val
	}
	flag.StringVar(&hwConfig, "hw-config", hwConfig, "YAML pin map, built-in wiring if empty")
}

func main() {
	flag.Parse()

	hwConf, err := periph.LoadConfig(hwConfig)
	if err != nil {
		log.Fatalln(err)
	}
	board, err := periph.Open(hwConf)
	if err != nil {
		log.Fatalln(err)
	}

	e := env.NewConfig().MustNewEnv()
	defer e.Close()
	v, err := rover.New(rover.NewConfig(), rover.BoardHardware(board), e.Telemetry(), nil)
	if err != nil {
		log.Fatalln(err)
	}
	e.Attach(v)
	if err := v.Init(); err != nil {
		log.Fatalln(err)
	}
	defer v.Machine.Stop()

	runner := fx.NewRunner().HandleSignals()
	if err := fx.NewLoop().Add(e, v).Run(runner.Context); err != nil && err != runner.Context.Err() {
		log.Println(err)
	}
}
