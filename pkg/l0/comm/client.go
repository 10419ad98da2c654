package comm

import (
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultTimeout is the Timeout of a new Client.
const DefaultTimeout = 2 * time.Second

// Reply is a validated response.
type Reply struct {
	Response Response
	Frame    Frame
}

// Payload returns the declared payload of the reply.
func (r *Reply) Payload() []byte {
	return r.Frame[1 : 1+r.Response.PayloadLen()]
}

// Client is the host side of the protocol. It sends one request frame
// and reads back one response frame per exchange.
type Client struct {
	// Timeout bounds an exchange if the connection supports deadlines.
	Timeout time.Duration

	conn io.ReadWriter
	lock sync.Mutex
}

type deadliner interface {
	SetDeadline(time.Time) error
}

// NewClient creates a Client over conn.
func NewClient(conn io.ReadWriter) *Client {
	return &Client{conn: conn, Timeout: DefaultTimeout}
}

// Do sends cmd with payload and validates the response.
func (c *Client) Do(cmd Command, payload []byte) (*Reply, error) {
	req := NewRequest(cmd, payload)

	c.lock.Lock()
	defer c.lock.Unlock()
	if dl, ok := c.conn.(deadliner); ok && c.Timeout > 0 {
		if err := dl.SetDeadline(time.Now().Add(c.Timeout)); err != nil {
			return nil, err
		}
		defer func() {
			if err := dl.SetDeadline(time.Time{}); err != nil {
				glog.V(2).Infof("clear deadline: %v", err)
			}
		}()
	}
	if _, err := c.conn.Write(req[:]); err != nil {
		return nil, err
	}
	reply := &Reply{}
	if _, err := io.ReadFull(c.conn, reply.Frame[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = ErrShortReply
		}
		return nil, err
	}
	glog.V(4).Infof("%s: % x", cmd, reply.Frame[:])
	if !reply.Frame.Verify() {
		return nil, ErrChecksum
	}
	reply.Response = Response(reply.Frame.Type())
	switch {
	case !reply.Response.IsValid():
		return nil, &UnknownResponseError{Type: reply.Frame.Type()}
	case reply.Response == Error:
		return nil, &CommandError{Command: cmd, ID: ErrorID(DecodeI16(reply.Frame[:], 1))}
	case reply.Response == BatteryNearEmpty:
		return nil, ErrBatteryNearEmpty
	case reply.Response != cmd.Expects():
		return nil, &UnexpectedResponseError{Command: cmd, Response: reply.Response}
	}
	return reply, nil
}

// Noop checks the car is alive.
func (c *Client) Noop() error {
	_, err := c.Do(Noop, nil)
	return err
}

// ProtocolVersion queries the protocol version of the car.
func (c *Client) ProtocolVersion() (int16, error) {
	reply, err := c.Do(GetProtocolVersion, nil)
	if err != nil {
		return 0, err
	}
	return DecodeI16(reply.Payload(), 0), nil
}

// Features queries the car capabilities.
func (c *Client) Features() (CarFeatures, error) {
	reply, err := c.Do(GetFeatures, nil)
	if err != nil {
		return CarFeatures{}, err
	}
	return DecodeFeatures(reply.Payload()), nil
}

// TurnCar sets rotation.
func (c *Client) TurnCar(rotation int16) error {
	var payload [2]byte
	EncodeI16(rotation, payload[:], 0)
	_, err := c.Do(TurnCar, payload[:])
	return err
}

// AdjustSpeed sets speed.
func (c *Client) AdjustSpeed(speed int16) error {
	var payload [2]byte
	EncodeI16(speed, payload[:], 0)
	_, err := c.Do(AdjustSpeed, payload[:])
	return err
}

// RotateCam points the camera.
func (c *Client) RotateCam(pan, tilt int16) error {
	var payload [4]byte
	EncodeI16(pan, payload[:], 0)
	EncodeI16(tilt, payload[:], 2)
	_, err := c.Do(RotateCam, payload[:])
	return err
}

// BatteryState queries the battery charge.
func (c *Client) BatteryState() (int16, error) {
	reply, err := c.Do(GetBatteryState, nil)
	if err != nil {
		return 0, err
	}
	return DecodeI16(reply.Payload(), 0), nil
}

// Handshake checks the protocol version and retrieves features,
// the first exchange a host performs after attaching.
func (c *Client) Handshake() (CarFeatures, error) {
	ver, err := c.ProtocolVersion()
	if err != nil {
		return CarFeatures{}, err
	}
	if ver != ProtocolVersion {
		return CarFeatures{}, &VersionMismatchError{Version: ver}
	}
	return c.Features()
}
