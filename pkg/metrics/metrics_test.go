package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/rccar.go/pkg/l0/comm"
)

func TestObserveOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCarMetrics(reg)
	outcomes := []comm.Outcome{
		{Command: byte(comm.Noop), Response: comm.RequestOK},
		{Command: byte(comm.Noop), Response: comm.RequestOK},
		{Command: 0x09, Response: comm.Error, Error: comm.UnknownCommandError},
		{Command: 0, Response: comm.Error, Error: comm.InvalidCommandError},
		{Command: byte(comm.TurnCar), Response: comm.BatteryNearEmpty},
	}
	for _, o := range outcomes {
		m.ObserveOutcome(o)
	}
	require.EqualValues(t, len(outcomes), m.Total())

	testCases := []struct {
		response, err string
		count         float64
	}{
		{"OK", "", 2},
		{"Error", "UnknownCommandError", 1},
		{"Error", "InvalidCommandError", 1},
		{"BatteryNearEmpty", "", 1},
	}
	for _, tc := range testCases {
		t.Run(tc.response+"/"+tc.err, func(t *testing.T) {
			require.Equal(t, tc.count, testutil.ToFloat64(m.Frames.WithLabelValues(tc.response, tc.err)))
		})
	}
	require.Equal(t, 4, testutil.CollectAndCount(m.Frames))
	require.Equal(t, float64(2), testutil.ToFloat64(m.Commands.WithLabelValues("Noop")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Commands.WithLabelValues("Command(0x09)")))
	require.Equal(t, 3, testutil.CollectAndCount(m.Commands))
}

func TestGauges(t *testing.T) {
	m := NewCarMetrics(prometheus.NewRegistry())
	m.SetConnected(true)
	require.Equal(t, float64(1), testutil.ToFloat64(m.Connected))
	m.SetConnected(false)
	require.Equal(t, float64(0), testutil.ToFloat64(m.Connected))
	m.Battery.Set(16383)
	require.Equal(t, float64(16383), testutil.ToFloat64(m.Battery))
}

type carState struct {
	connected bool
	battery   int16
}

func (s *carState) IsConnected() bool   { return s.connected }
func (s *carState) BatteryLevel() int16 { return s.battery }

func TestSampler(t *testing.T) {
	m := NewCarMetrics(prometheus.NewRegistry())
	state := &carState{connected: true, battery: 1000}
	s := &Sampler{Metrics: m, Link: state, Battery: state}
	require.NoError(t, s.Control(nil))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Connected))
	require.Equal(t, float64(1000), testutil.ToFloat64(m.Battery))

	state.connected, state.battery = false, 0
	require.NoError(t, s.Control(nil))
	require.Equal(t, float64(0), testutil.ToFloat64(m.Connected))
	require.Equal(t, float64(0), testutil.ToFloat64(m.Battery))

	require.NoError(t, (&Sampler{Metrics: m}).Control(nil))
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	m := NewCarMetrics(reg)
	m.ObserveOutcome(comm.Outcome{Command: byte(comm.Noop), Response: comm.RequestOK})

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `rccar_frames_total{error="",response="OK"} 1`))
	require.True(t, strings.Contains(string(body), "go_goroutines"))
}
