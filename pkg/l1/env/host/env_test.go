package host

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rccar.go/pkg/l0/comm"
	"github.com/robotalks/rccar.go/pkg/l0/link"
	"github.com/robotalks/rccar.go/pkg/l0/link/stream"
)

type parkedCar struct {
	comm.Unsupported
}

func (parkedCar) Features() comm.CarFeatures { return comm.CarFeatures{} }
func (parkedCar) TurnCar(int16) bool         { return false }
func (parkedCar) AdjustSpeed(int16) bool     { return false }

func TestConnect(t *testing.T) {
	ln, err := stream.Listen("127.0.0.1:0")
	require.NoError(t, err)
	tr := link.NewTransport(ln)
	defer tr.Close()
	d := comm.NewDispatcher(tr, parkedCar{})
	require.NoError(t, d.SetUp())
	stopCh := make(chan struct{})
	defer close(stopCh)
	go func() {
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				d.HandleNextCommand()
			}
		}
	}()

	conf := NewConfig()
	conf.LinkURL = "tcp://" + ln.Addr().String()
	conf.Timeout = time.Second
	client, closer, err := conf.Connect()
	require.NoError(t, err)
	defer closer.Close()
	require.Equal(t, time.Second, client.Timeout)

	ver, err := client.ProtocolVersion()
	require.NoError(t, err)
	require.Equal(t, comm.ProtocolVersion, ver)
	_, err = client.BatteryState()
	require.Equal(t, &comm.CommandError{Command: comm.GetBatteryState, ID: comm.ProcessCommandError}, err)
}

func TestConnectError(t *testing.T) {
	conf := NewConfig()
	conf.LinkURL = "mqtt://127.0.0.1:1"
	conf.Ref.Type, conf.Ref.ID = "", ""
	_, _, err := conf.Connect()
	require.Error(t, err)
}
