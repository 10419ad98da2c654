package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/robotalks/rccar.go/pkg/car/reference"
	fx "github.com/robotalks/rccar.go/pkg/framework"
	env "github.com/robotalks/rccar.go/pkg/l1/env/car"
	"github.com/robotalks/rccar.go/pkg/l1/telemetry"
	"github.com/robotalks/rccar.go/pkg/sim"
	"github.com/robotalks/rccar.go/pkg/sim/physics"
)

func init() {
	env.Default().Info.Meta.Description = "Simulated reference car"
	env.SetupFlags()
}

func main() {
	flag.Parse()

	conf := env.NewConfig()
	e := conf.MustNewEnv()

	hw := sim.NewHardware()
	car := reference.New(hw.Reference())
	tracker := physics.NewTracker(hw)
	dispatcher := e.NewDispatcher(car)
	if err := dispatcher.SetUp(); err != nil {
		log.Fatalln(err)
	}

	loop := fx.NewLoop()
	loop.Interval = conf.Interval
	loop.Add(hw, dispatcher, tracker, e.NewSampler(car))
	if pub := e.NewPublisher(&telemetry.Sources{Car: car, Tracker: tracker}); pub != nil {
		loop.Add(pub)
	}

	err := fx.NewRunner().
		HandleSignals().
		Go(fx.NamedRun("loop", loop)).
		Go(e.Start()...).
		CloseOnExit(e).
		Wait()
	if err != nil {
		log.Fatalln(err)
	}
}
