package main

import (
	"context"
	"flag"
	"log"

	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/l1"
	env "github.com/robotalks/rover.go/pkg/l1/env/connector"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	connector := env.NewConfig().MustNewConnector()
	runner := fx.NewRunner().HandleSignals()
	err := connector.Monitor(runner.Context, func(ref l1.VehicleRef, line string) {
		log.Printf("%s: %s", ref.Name(), line)
	})
	if err != nil && err != context.Canceled {
		log.Fatalln(err)
	}
}
