// Package car provides shell commands driving an attached car.
package car

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rccar.go/pkg/cli/sh"
	"github.com/robotalks/rccar.go/pkg/l0/comm"
)

// ParseUnit parses a value in [-1, 1] into its wire value.
func ParseUnit(arg string) (int16, error) {
	val, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, err
	}
	return comm.ScaleUnit(val)
}

// ParseUnits parses one unit argument per name.
func ParseUnits(args []string, names ...string) ([]int16, error) {
	if len(args) < len(names) {
		return nil, fmt.Errorf("%s required", names[len(args)])
	}
	vals := make([]int16, len(names))
	for n, name := range names {
		val, err := ParseUnit(args[n])
		if err != nil {
			return nil, fmt.Errorf("Invalid %s: %v", name, err)
		}
		vals[n] = val
	}
	return vals, nil
}

// BatteryPercent converts a battery state into percent.
func BatteryPercent(state int16) (float64, error) {
	return comm.RangeConvert(state, 100)
}

// FeaturesInfo is the printable form of CarFeatures.
type FeaturesInfo struct {
	comm.CarFeatures
	PanCamera  bool
	TiltCamera bool
}

func unitsCmd(name, aliases, help string, names []string, fn func(*comm.Client, []int16) error) ishell.Cmd {
	return ishell.Cmd{
		Name:    name,
		Aliases: []string{aliases},
		Help:    help,
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			vals, err := ParseUnits(c.Args, names...)
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoCommand(c, func(client *comm.Client) (interface{}, error) {
				return nil, fn(client, vals)
			})
		}),
	}
}

var (
	// NoopCmd pings the car.
	NoopCmd = ishell.Cmd{
		Name:    "noop",
		Aliases: []string{"ping"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, func(client *comm.Client) (interface{}, error) {
				return nil, client.Noop()
			})
		}),
	}

	// VersionCmd queries protocol version.
	VersionCmd = ishell.Cmd{
		Name:    "version",
		Aliases: []string{"ver"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, func(client *comm.Client) (interface{}, error) {
				return client.ProtocolVersion()
			})
		}),
	}

	// FeaturesCmd queries car features.
	FeaturesCmd = ishell.Cmd{
		Name:    "features",
		Aliases: []string{"caps"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, func(client *comm.Client) (interface{}, error) {
				features, err := client.Features()
				if err != nil {
					return nil, err
				}
				return &FeaturesInfo{
					CarFeatures: features,
					PanCamera:   features.SupportPanCamera(),
					TiltCamera:  features.SupportTiltCamera(),
				}, nil
			})
		}),
	}

	// SpeedCmd adjusts speed.
	SpeedCmd = unitsCmd("speed", "s", "SPEED(-1..1)", []string{"SPEED"},
		func(client *comm.Client, vals []int16) error {
			return client.AdjustSpeed(vals[0])
		})

	// TurnCmd turns the car.
	TurnCmd = unitsCmd("turn", "t", "ROTATION(-1..1, negative is left)", []string{"ROTATION"},
		func(client *comm.Client, vals []int16) error {
			return client.TurnCar(vals[0])
		})

	// CamCmd rotates the camera.
	CamCmd = unitsCmd("cam", "c", "PAN(-1..1) TILT(0..1)", []string{"PAN", "TILT"},
		func(client *comm.Client, vals []int16) error {
			return client.RotateCam(vals[0], vals[1])
		})

	// StopCmd stops the car.
	StopCmd = ishell.Cmd{
		Name:    "stop",
		Aliases: []string{"x"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, func(client *comm.Client) (interface{}, error) {
				if err := client.AdjustSpeed(0); err != nil {
					return nil, err
				}
				return nil, client.TurnCar(0)
			})
		}),
	}

	// BatteryCmd queries the battery.
	BatteryCmd = ishell.Cmd{
		Name:    "battery",
		Aliases: []string{"b"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, func(client *comm.Client) (interface{}, error) {
				state, err := client.BatteryState()
				if err != nil {
					return nil, err
				}
				percent, err := BatteryPercent(state)
				if err != nil {
					return nil, err
				}
				return fmt.Sprintf("%.1f%%", percent), nil
			})
		}),
	}
)

func init() {
	sh.AddCmds(
		&NoopCmd,
		&VersionCmd,
		&FeaturesCmd,
		&SpeedCmd,
		&TurnCmd,
		&CamCmd,
		&StopCmd,
		&BatteryCmd,
	)
}
