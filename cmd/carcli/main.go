package main

import (
	"github.com/robotalks/rccar.go/pkg/cli/sh"
	env "github.com/robotalks/rccar.go/pkg/l1/env/host"

	_ "github.com/robotalks/rccar.go/pkg/cli/cmds/car"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
