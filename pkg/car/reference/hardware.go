// Package reference implements the reference car: four DC motors driven
// in left/right pairs, a pan/tilt camera on two servos and a two cell
// LiPo battery.
package reference

// Direction is the run mode of a DC motor.
type Direction int

// Directions
const (
	Release Direction = iota
	Forward
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return "release"
}

// Motor is a DC motor on a motor shield.
type Motor interface {
	Run(Direction)
	// SetSpeed sets the PWM duty, 0..255.
	SetSpeed(uint8)
}

// Servo is a hobby servo.
type Servo interface {
	// Write moves to angle in degrees.
	Write(angle int)
}

// CellSensor samples the battery through the ADC. Both values are raw
// 10-bit counts: both is taken from a 1:2 divider over the whole pack,
// one is the first cell.
type CellSensor interface {
	ReadCells() (both, one int)
}

// Hardware groups the devices of a car.
type Hardware struct {
	FrontLeft, FrontRight Motor
	BackLeft, BackRight   Motor
	Pan, Tilt             Servo
	Cells                 CellSensor
}

// Map re-maps x from [inMin, inMax] to [outMin, outMax] with integer
// arithmetic, truncating toward zero.
func Map(x, inMin, inMax, outMin, outMax int) int {
	return int(int64(x-inMin)*int64(outMax-outMin)/int64(inMax-inMin)) + outMin
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
