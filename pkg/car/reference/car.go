package reference

import (
	"math"

	"github.com/golang/glog"

	"github.com/robotalks/rccar.go/pkg/l0/comm"
)

// Servo limits in degrees.
const (
	PanServoMin  = 23
	PanServoMax  = 180
	TiltServoMin = 10
	TiltServoMax = 180
)

// motor PWM limits.
const (
	maxPWM = 255
	// maxInnerPWM and minInnerPWM bound the inner side at the slightest
	// and sharpest turn.
	maxInnerPWM = maxPWM - 100
	minInnerPWM = 60
)

// Car implements comm.Vehicle for the reference car.
type Car struct {
	HW      Hardware
	Battery *Battery

	speed    int16
	rotation int16
	run      Direction
	pwm      [2]uint8
	pan      int
	tilt     int
}

// State is a snapshot of the car.
type State struct {
	Speed     int16
	Rotation  int16
	Run       Direction
	LeftPWM   uint8
	RightPWM  uint8
	PanAngle  int
	TiltAngle int
	Battery   int16
	NearEmpty bool
	Cells     [2]int
}

// New creates a Car.
func New(hw Hardware) *Car {
	return &Car{HW: hw, Battery: NewBattery(hw.Cells)}
}

// SetUp implements comm.Initializer.
func (c *Car) SetUp() error {
	c.resetAll()
	c.Battery.Update()
	glog.Infof("reference car ready, battery %d near empty %v", c.Battery.Value(), c.Battery.NearEmpty())
	return nil
}

// Features implements comm.Vehicle.
func (c *Car) Features() comm.CarFeatures {
	// the camera pans 90 degrees to either side.
	pan := int16(Map(90, 0, 180, 0, math.MaxInt16))
	return comm.CarFeatures{
		AdjustableSpeed: true,
		DriveBackward:   true,
		BatteryPower:    true,
		CameraPanMin:    pan,
		CameraPanMax:    pan,
		CameraTiltMin:   0,
		CameraTiltMax:   math.MaxInt16,
	}
}

// AdjustSpeed implements comm.Vehicle.
func (c *Car) AdjustSpeed(speed int16) bool {
	c.speed = comm.Symmetric(speed)
	c.updateMotors()
	return true
}

// TurnCar implements comm.Vehicle.
func (c *Car) TurnCar(rotation int16) bool {
	c.rotation = comm.Symmetric(rotation)
	c.updateMotors()
	return true
}

// RotateCam implements comm.Vehicle. The camera can not tilt below the
// horizon.
func (c *Car) RotateCam(pan, tilt int16) bool {
	if tilt < 0 {
		return false
	}
	c.pan = Map(int(pan), math.MinInt16, math.MaxInt16, PanServoMin, PanServoMax)
	c.tilt = Map(int(tilt), 0, math.MaxInt16, TiltServoMin, TiltServoMax)
	c.HW.Pan.Write(c.pan)
	c.HW.Tilt.Write(c.tilt)
	return true
}

// BatteryState implements comm.Vehicle. All actuators are reset when the
// battery is found near empty.
func (c *Car) BatteryState() int16 {
	c.Battery.Update()
	if c.Battery.NearEmpty() {
		glog.Warningf("battery near empty, cells %v", c.Battery.Cells())
		c.resetAll()
	}
	return c.Battery.Value()
}

// BatteryLevel is the charge from the last battery update.
func (c *Car) BatteryLevel() int16 {
	return c.Battery.Value()
}

// BatteryNearEmpty implements comm.Vehicle.
func (c *Car) BatteryNearEmpty() bool {
	return c.Battery.NearEmpty()
}

// State returns a snapshot.
func (c *Car) State() State {
	return State{
		Speed:     c.speed,
		Rotation:  c.rotation,
		Run:       c.run,
		LeftPWM:   c.pwm[0],
		RightPWM:  c.pwm[1],
		PanAngle:  c.pan,
		TiltAngle: c.tilt,
		Battery:   c.Battery.Value(),
		NearEmpty: c.Battery.NearEmpty(),
		Cells:     c.Battery.Cells(),
	}
}

func (c *Car) resetAll() {
	c.AdjustSpeed(0)
	c.RotateCam(0, 0)
}

func (c *Car) updateMotors() {
	switch {
	case c.speed > 0:
		c.run = Forward
	case c.speed < 0:
		c.run = Backward
	default:
		c.run = Release
	}
	for _, m := range []Motor{c.HW.FrontLeft, c.HW.FrontRight, c.HW.BackLeft, c.HW.BackRight} {
		m.Run(c.run)
	}
	left, right := maxPWM, maxPWM
	if c.rotation < 0 {
		left = innerMax(c.rotation)
	} else if c.rotation > 0 {
		right = innerMax(c.rotation)
	}
	c.pwm[0] = uint8(Map(abs(int(c.speed)), 0, math.MaxInt16, 0, left))
	c.pwm[1] = uint8(Map(abs(int(c.speed)), 0, math.MaxInt16, 0, right))
	c.HW.FrontLeft.SetSpeed(c.pwm[0])
	c.HW.BackLeft.SetSpeed(c.pwm[0])
	c.HW.FrontRight.SetSpeed(c.pwm[1])
	c.HW.BackRight.SetSpeed(c.pwm[1])
	glog.V(4).Infof("motors %s pwm %d/%d", c.run, c.pwm[0], c.pwm[1])
}

func innerMax(rotation int16) int {
	return Map(abs(int(rotation)), 0, math.MaxInt16, maxInnerPWM, minInnerPWM)
}
