package telemetry

import (
	"context"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/rccar.go/pkg/car/reference"
	fx "github.com/robotalks/rccar.go/pkg/framework"
	"github.com/robotalks/rccar.go/pkg/l0/comm"
	"github.com/robotalks/rccar.go/pkg/l1"
	"github.com/robotalks/rccar.go/pkg/l1/msgs"
	"github.com/robotalks/rccar.go/pkg/metrics"
	"github.com/robotalks/rccar.go/pkg/sim"
	"github.com/robotalks/rccar.go/pkg/sim/physics"
)

type published struct {
	topic   string
	payload []byte
}

type fakeSink struct {
	msgs []published
}

func (s *fakeSink) Pub(topic string, payload []byte) paho.Token {
	s.msgs = append(s.msgs, published{topic: topic, payload: payload})
	return &paho.DummyToken{}
}

type connected bool

func (c connected) IsConnected() bool { return bool(c) }

func newSources() (*Sources, *sim.Hardware) {
	hw := sim.NewHardware()
	hw.Battery.Charge(800)
	car := reference.New(hw.Reference())
	car.SetUp()
	return &Sources{Car: car}, hw
}

func TestStatus(t *testing.T) {
	sources, hw := newSources()
	sources.Car.AdjustSpeed(comm.UnitMax)
	sources.Tracker = physics.NewTracker(hw)
	sources.Tracker.SetPose2D(sim.Pose2D{Pos2D: sim.Pos2D{X: 1, Y: 2}, Orientation: sim.AngleFromRadians(0.5)})
	sources.Link = connected(true)
	sources.Metrics = metrics.NewCarMetrics(prometheus.NewRegistry())
	sources.Metrics.ObserveOutcome(comm.Outcome{Command: byte(comm.Noop), Response: comm.RequestOK})

	status := sources.Status()
	require.True(t, status.Connected)
	require.Equal(t, int32(comm.UnitMax), status.Speed)
	require.Equal(t, uint32(255), status.LeftPwm)
	require.Equal(t, uint32(255), status.RightPwm)
	require.Equal(t, int32(21786), status.Battery)
	require.False(t, status.NearEmpty)
	require.Equal(t, []int32{800, 800}, status.Cells)
	require.Equal(t, &msgs.Pose2D{X: 1, Y: 2, Heading: 0.5}, status.Pose)
	require.Equal(t, uint64(1), status.Frames)
}

func TestStatusMinimalSources(t *testing.T) {
	sources, _ := newSources()
	status := sources.Status()
	require.False(t, status.Connected)
	require.Nil(t, status.Pose)
	require.Zero(t, status.Frames)
}

func TestPublisherPeriod(t *testing.T) {
	sources, _ := newSources()
	sink := &fakeSink{}
	ref := l1.CarRef{Type: "reference", ID: "car1"}
	pub := NewPublisher(ref, sink, sources)
	loop := fx.NewLoop().Add(pub)

	start := time.Unix(1000, 0)
	testCases := []struct {
		offset time.Duration
		count  int
	}{
		{0, 1},
		{300 * time.Millisecond, 1},
		{999 * time.Millisecond, 1},
		{time.Second, 2},
		{1500 * time.Millisecond, 2},
		{2100 * time.Millisecond, 3},
	}
	for _, tc := range testCases {
		loop.RunIteration(context.Background(), start.Add(tc.offset))
		require.Len(t, sink.msgs, tc.count, "at %v", tc.offset)
	}

	for n, m := range sink.msgs {
		require.Equal(t, "reference/car1/status", m.topic)
		typed, msg, err := msgs.Decode(m.payload)
		require.NoError(t, err)
		require.True(t, typed.IsEvent())
		require.Equal(t, uint32(n+1), typed.Sequence)
		status, ok := msg.(*msgs.CarStatus)
		require.True(t, ok)
		require.Equal(t, int32(21786), status.Battery)
	}
}
