package reference

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rccar.go/pkg/l0/comm"
)

type testMotor struct {
	run   Direction
	speed uint8
}

func (m *testMotor) Run(d Direction)      { m.run = d }
func (m *testMotor) SetSpeed(speed uint8) { m.speed = speed }

type testServo struct {
	angle  int
	writes int
}

func (s *testServo) Write(angle int) {
	s.angle = angle
	s.writes++
}

type testCells struct {
	both, one int
}

func (c *testCells) ReadCells() (int, int) { return c.both, c.one }

type testRig struct {
	fl, fr, bl, br testMotor
	pan, tilt      testServo
	cells          testCells
}

func newTestCar() (*Car, *testRig) {
	rig := &testRig{cells: testCells{both: 800, one: 800}}
	car := New(Hardware{
		FrontLeft:  &rig.fl,
		FrontRight: &rig.fr,
		BackLeft:   &rig.bl,
		BackRight:  &rig.br,
		Pan:        &rig.pan,
		Tilt:       &rig.tilt,
		Cells:      &rig.cells,
	})
	return car, rig
}

var _ comm.Vehicle = &Car{}
var _ comm.Initializer = &Car{}

func TestMap(t *testing.T) {
	testCases := []struct {
		x, inMin, inMax, outMin, outMax int
		expect                          int
	}{
		{90, 0, 180, 0, math.MaxInt16, 16383},
		{0, math.MinInt16, math.MaxInt16, 23, 180, 101},
		{math.MinInt16, math.MinInt16, math.MaxInt16, 23, 180, 23},
		{math.MaxInt16, math.MinInt16, math.MaxInt16, 23, 180, 180},
		{16384, 0, math.MaxInt16, 155, 60, 108},
		{math.MaxInt16, 0, math.MaxInt16, 155, 60, 60},
		{800, MinPerCell, MaxPerCell, 0, math.MaxInt16, 21786},
	}
	for _, tc := range testCases {
		require.Equalf(t, tc.expect, Map(tc.x, tc.inMin, tc.inMax, tc.outMin, tc.outMax), "%+v", tc)
	}
}

func TestCarDrive(t *testing.T) {
	testCases := []struct {
		name        string
		speed       int16
		rotation    int16
		run         Direction
		left, right uint8
	}{
		{name: "stop", run: Release},
		{name: "full forward", speed: math.MaxInt16, run: Forward, left: 255, right: 255},
		{name: "full backward", speed: math.MinInt16, run: Backward, left: 255, right: 255},
		{name: "sharp left", speed: 16384, rotation: -math.MaxInt16, run: Forward, left: 30, right: 127},
		{name: "half right", speed: 16384, rotation: 16384, run: Forward, left: 127, right: 54},
		{name: "turn on the spot", rotation: math.MaxInt16, run: Release},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			car, rig := newTestCar()
			require.True(t, car.TurnCar(tc.rotation))
			require.True(t, car.AdjustSpeed(tc.speed))
			for _, m := range []*testMotor{&rig.fl, &rig.fr, &rig.bl, &rig.br} {
				require.Equal(t, tc.run, m.run)
			}
			require.Equal(t, tc.left, rig.fl.speed)
			require.Equal(t, tc.left, rig.bl.speed)
			require.Equal(t, tc.right, rig.fr.speed)
			require.Equal(t, tc.right, rig.br.speed)
			state := car.State()
			require.Equal(t, tc.left, state.LeftPWM)
			require.Equal(t, tc.right, state.RightPWM)
		})
	}
}

func TestCarSymmetricValues(t *testing.T) {
	car, _ := newTestCar()
	car.AdjustSpeed(math.MinInt16)
	car.TurnCar(math.MinInt16)
	state := car.State()
	require.Equal(t, int16(-math.MaxInt16), state.Speed)
	require.Equal(t, int16(-math.MaxInt16), state.Rotation)
}

func TestCarRotateCam(t *testing.T) {
	car, rig := newTestCar()
	require.True(t, car.RotateCam(0, 16384))
	require.Equal(t, 101, rig.pan.angle)
	require.Equal(t, 95, rig.tilt.angle)

	require.True(t, car.RotateCam(math.MinInt16, math.MaxInt16))
	require.Equal(t, PanServoMin, rig.pan.angle)
	require.Equal(t, TiltServoMax, rig.tilt.angle)

	writes := rig.pan.writes
	require.False(t, car.RotateCam(0, -1))
	require.Equal(t, writes, rig.pan.writes)
	require.Equal(t, TiltServoMax, rig.tilt.angle)
}

func TestCarFeatures(t *testing.T) {
	car, _ := newTestCar()
	buf := make([]byte, comm.FeaturesPayloadLen)
	car.Features().Encode(buf)
	require.Equal(t, []byte{0x07, 0x3f, 0xff, 0x3f, 0xff, 0x00, 0x00, 0x7f, 0xff}, buf)
	require.True(t, car.Features().SupportPanCamera())
	require.True(t, car.Features().SupportTiltCamera())
}

func TestCarBattery(t *testing.T) {
	car, rig := newTestCar()
	require.True(t, car.BatteryNearEmpty())
	require.NoError(t, car.SetUp())
	require.False(t, car.BatteryNearEmpty())
	require.Equal(t, TiltServoMin, rig.tilt.angle)

	require.Equal(t, int16(21786), car.BatteryState())

	rig.cells = testCells{both: 900, one: 900}
	require.Equal(t, int16(math.MaxInt16), car.BatteryState())

	car.AdjustSpeed(math.MaxInt16)
	car.RotateCam(math.MaxInt16, math.MaxInt16)
	// second cell at 600 counts.
	rig.cells = testCells{both: 700, one: 800}
	require.Equal(t, int16(0), car.BatteryState())
	require.True(t, car.BatteryNearEmpty())
	require.Equal(t, Release, rig.fl.run)
	require.Equal(t, uint8(0), rig.fl.speed)
	require.Equal(t, 101, rig.pan.angle)
	require.Equal(t, [2]int{800, 600}, car.State().Cells)
}

func TestCarDispatch(t *testing.T) {
	car, rig := newTestCar()
	car.SetUp()
	d := comm.NewDispatcher(nil, car)
	req := comm.NewRequest(comm.AdjustSpeed, []byte{0x7f, 0xff})
	require.Equal(t, comm.NewResponse(comm.RequestOK, nil), d.Respond(req[:]))
	require.Equal(t, uint8(255), rig.br.speed)

	req = comm.NewRequest(comm.RotateCam, []byte{0, 0, 0xff, 0xff})
	require.Equal(t, comm.NewErrorResponse(comm.ProcessCommandError), d.Respond(req[:]))

	rig.cells = testCells{both: 600, one: 600}
	req = comm.NewRequest(comm.GetBatteryState, nil)
	resp := d.Respond(req[:])
	require.Equal(t, comm.Response(resp[0]), comm.BatteryState)
	require.Equal(t, comm.NewResponse(comm.BatteryNearEmpty, nil), d.Respond(req[:]))
}
