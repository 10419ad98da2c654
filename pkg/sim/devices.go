package sim

import (
	"sync"
	"time"

	"github.com/robotalks/rccar.go/pkg/car/reference"
	fx "github.com/robotalks/rccar.go/pkg/framework"
)

// Motor records the output of a motor.
type Motor struct {
	Direction reference.Direction
	PWM       uint8
}

// Run implements reference.Motor.
func (m *Motor) Run(d reference.Direction) { m.Direction = d }

// SetSpeed implements reference.Motor.
func (m *Motor) SetSpeed(pwm uint8) { m.PWM = pwm }

// Output returns the signed duty in [-1, 1].
func (m *Motor) Output() float64 {
	v := float64(m.PWM) / 255
	switch m.Direction {
	case reference.Forward:
		return v
	case reference.Backward:
		return -v
	}
	return 0
}

// Servo records the angle of a servo.
type Servo struct {
	Angle int
}

// Write implements reference.Servo.
func (s *Servo) Write(angle int) { s.Angle = angle }

// Battery defaults, in ADC counts per cell.
const (
	DefaultCellCharge = 863
	// DefaultIdleDrain and DefaultLoadDrain are per second, the latter at
	// full duty of all motors.
	DefaultIdleDrain = 0.01
	DefaultLoadDrain = 0.5
)

// Battery simulates the two cells and the ADC reading them.
type Battery struct {
	Cells     [2]float64
	IdleDrain float64
	LoadDrain float64

	lock sync.Mutex
}

// NewBattery creates a charged Battery.
func NewBattery() *Battery {
	return &Battery{
		Cells:     [2]float64{DefaultCellCharge, DefaultCellCharge},
		IdleDrain: DefaultIdleDrain,
		LoadDrain: DefaultLoadDrain,
	}
}

// ReadCells implements reference.CellSensor.
func (b *Battery) ReadCells() (both, one int) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return int(b.Cells[0]+b.Cells[1]) / 2, int(b.Cells[0])
}

// Drain discharges the cells for dur with load in [0, 1].
func (b *Battery) Drain(dur time.Duration, load float64) {
	amount := (b.IdleDrain + b.LoadDrain*load) * dur.Seconds()
	b.lock.Lock()
	defer b.lock.Unlock()
	for n := range b.Cells {
		if b.Cells[n] -= amount; b.Cells[n] < 0 {
			b.Cells[n] = 0
		}
	}
}

// Charge sets both cells.
func (b *Battery) Charge(counts float64) {
	b.lock.Lock()
	b.Cells = [2]float64{counts, counts}
	b.lock.Unlock()
}

// Hardware is the simulated reference car.
type Hardware struct {
	Motors  [4]Motor
	Pan     Servo
	Tilt    Servo
	Battery *Battery

	lastTime time.Time
}

// NewHardware creates simulated hardware.
func NewHardware() *Hardware {
	return &Hardware{Battery: NewBattery()}
}

// Reference wires the devices for reference.New.
func (h *Hardware) Reference() reference.Hardware {
	return reference.Hardware{
		FrontLeft:  &h.Motors[0],
		FrontRight: &h.Motors[1],
		BackLeft:   &h.Motors[2],
		BackRight:  &h.Motors[3],
		Pan:        &h.Pan,
		Tilt:       &h.Tilt,
		Cells:      h.Battery,
	}
}

// Wheels returns the left and right outputs in [-1, 1].
func (h *Hardware) Wheels() (left, right float64) {
	return (h.Motors[0].Output() + h.Motors[2].Output()) / 2,
		(h.Motors[1].Output() + h.Motors[3].Output()) / 2
}

// Load is the average absolute motor duty.
func (h *Hardware) Load() float64 {
	var sum float64
	for n := range h.Motors {
		sum += float64(h.Motors[n].PWM) / 255
	}
	return sum / float64(len(h.Motors))
}

// AddToLoop implements LoopAdder.
func (h *Hardware) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvSense, fx.ControlFunc(h.Sense))
}

// Sense drains the battery for the time since the last iteration.
func (h *Hardware) Sense(cc fx.ControlContext) error {
	now := cc.Time()
	if !h.lastTime.IsZero() && now.After(h.lastTime) {
		h.Battery.Drain(now.Sub(h.lastTime), h.Load())
	}
	h.lastTime = now
	return nil
}
