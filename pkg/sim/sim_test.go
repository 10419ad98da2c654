package sim

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rccar.go/pkg/car/reference"
)

func TestAngle(t *testing.T) {
	require.InDelta(t, math.Pi/2, AngleFromDegrees(90).Radians(), 1e-9)
	require.InDelta(t, -90, AngleFromDegrees(270).Degrees(), 1e-9)
	require.InDelta(t, math.Pi, AngleFromRadians(-math.Pi).Radians(), 1e-9)
	require.InDelta(t, 0, AngleFromDegrees(720).Radians(), 1e-9)
	p := AngleFromDegrees(90).Project(2)
	require.InDelta(t, 0, p.X, 1e-9)
	require.InDelta(t, 2, p.Y, 1e-9)
}

func TestMotorOutput(t *testing.T) {
	m := &Motor{}
	m.SetSpeed(255)
	require.Zero(t, m.Output())
	m.Run(reference.Forward)
	require.Equal(t, 1.0, m.Output())
	m.Run(reference.Backward)
	require.Equal(t, -1.0, m.Output())
}

func TestBatteryDrain(t *testing.T) {
	b := NewBattery()
	both, one := b.ReadCells()
	require.Equal(t, DefaultCellCharge, both)
	require.Equal(t, DefaultCellCharge, one)

	b.Drain(10*time.Second, 1)
	both, one = b.ReadCells()
	require.Equal(t, 857, both)
	require.Equal(t, 857, one)

	b.Drain(time.Hour, 1)
	both, one = b.ReadCells()
	require.Zero(t, both)
	require.Zero(t, one)

	b.Charge(700)
	both, _ = b.ReadCells()
	require.Equal(t, 700, both)
}

func TestHardwareWithReferenceCar(t *testing.T) {
	hw := NewHardware()
	car := reference.New(hw.Reference())
	require.NoError(t, car.SetUp())
	require.False(t, car.BatteryNearEmpty())

	car.AdjustSpeed(math.MaxInt16)
	left, right := hw.Wheels()
	require.Equal(t, 1.0, left)
	require.Equal(t, 1.0, right)
	require.Equal(t, 1.0, hw.Load())

	car.RotateCam(math.MaxInt16, 0)
	require.Equal(t, reference.PanServoMax, hw.Pan.Angle)
	require.Equal(t, reference.TiltServoMin, hw.Tilt.Angle)

	hw.Battery.Charge(600)
	car.BatteryState()
	require.True(t, car.BatteryNearEmpty())
	require.Zero(t, hw.Load())
}
