package comm

import (
	"github.com/golang/glog"
)

// Outcome summarizes a processed request.
type Outcome struct {
	// Command is the raw type byte of the request, 0 if the request
	// was rejected before decoding.
	Command  byte
	Response Response
	// Error is meaningful only if Response is Error.
	Error ErrorID
}

// Observer is notified after every response sent.
type Observer interface {
	ObserveOutcome(Outcome)
}

// ObserverFunc is the func form of Observer.
type ObserverFunc func(Outcome)

// ObserveOutcome implements Observer.
func (f ObserverFunc) ObserveOutcome(o Outcome) {
	f(o)
}

// Dispatcher is the car side of the protocol. It validates requests,
// invokes the Vehicle and answers every request with exactly one
// response frame.
type Dispatcher struct {
	Transport Transport
	Vehicle   Vehicle
	Observer  Observer
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(t Transport, v Vehicle) *Dispatcher {
	return &Dispatcher{Transport: t, Vehicle: v}
}

// SetUp powers on the transport and initializes the vehicle.
func (d *Dispatcher) SetUp() error {
	if err := d.Transport.PowerOn(); err != nil {
		return err
	}
	if init, ok := d.Vehicle.(Initializer); ok {
		return init.SetUp()
	}
	return nil
}

// IsConnected reports whether a host is attached.
func (d *Dispatcher) IsConnected() bool {
	return d.Transport.IsConnected()
}

// HandleNextCommand processes at most one pending request without
// blocking. Malformed requests are answered on the wire; only transport
// failures are returned.
func (d *Dispatcher) HandleNextCommand() error {
	_, err := d.handleNext()
	return err
}

func (d *Dispatcher) handleNext() (bool, error) {
	// one extra byte exposes oversized packets.
	var req [RequestSize + 1]byte
	n, err := d.Transport.Read(req[:])
	if err != nil || n == 0 {
		return false, err
	}
	resp, outcome := d.respond(req[:n])
	if _, err = d.Transport.Write(resp[:]); err != nil {
		return true, err
	}
	if d.Observer != nil {
		d.Observer.ObserveOutcome(outcome)
	}
	return true, nil
}

// Respond computes the response frame for a raw request.
func (d *Dispatcher) Respond(req []byte) Frame {
	resp, _ := d.respond(req)
	return resp
}

func (d *Dispatcher) respond(req []byte) (Frame, Outcome) {
	var outcome Outcome
	if len(req) != RequestSize {
		glog.Warningf("invalid request: size %d", len(req))
		return d.fail(&outcome, InvalidCommandError)
	}
	var f Frame
	copy(f[:], req)
	if !f.Verify() {
		glog.Warningf("invalid request: checksum 0x%02x mismatch", f[FrameSize-1])
		return d.fail(&outcome, InvalidCommandError)
	}
	outcome.Command = f.Type()
	if d.Vehicle.BatteryNearEmpty() {
		glog.V(2).Infof("battery near empty, refused %s", Command(f.Type()))
		outcome.Response = BatteryNearEmpty
		return NewResponse(BatteryNearEmpty, nil), outcome
	}

	var resp Frame
	payload := f.Payload()
	switch cmd := Command(f.Type()); cmd {
	case Noop:
		resp = NewResponse(RequestOK, nil)
	case GetProtocolVersion:
		resp[0] = byte(Version)
		EncodeI16(ProtocolVersion, resp[:], 1)
		resp.Seal()
	case GetFeatures:
		resp[0] = byte(Features)
		d.Vehicle.Features().Encode(resp[1 : 1+FeaturesPayloadLen])
		resp.Seal()
	case TurnCar:
		if !d.Vehicle.TurnCar(DecodeI16(payload, 0)) {
			return d.fail(&outcome, ProcessCommandError)
		}
		resp = NewResponse(RequestOK, nil)
	case AdjustSpeed:
		if !d.Vehicle.AdjustSpeed(DecodeI16(payload, 0)) {
			return d.fail(&outcome, ProcessCommandError)
		}
		resp = NewResponse(RequestOK, nil)
	case RotateCam:
		if !d.Vehicle.RotateCam(DecodeI16(payload, 0), DecodeI16(payload, 2)) {
			return d.fail(&outcome, ProcessCommandError)
		}
		resp = NewResponse(RequestOK, nil)
	case GetBatteryState:
		state := d.Vehicle.BatteryState()
		if state < 0 {
			return d.fail(&outcome, ProcessCommandError)
		}
		resp[0] = byte(BatteryState)
		EncodeI16(state, resp[:], 1)
		resp.Seal()
	default:
		glog.Warningf("unknown command 0x%02x", byte(cmd))
		return d.fail(&outcome, UnknownCommandError)
	}
	outcome.Response = Response(resp[0])
	glog.V(4).Infof("%s -> %s", Command(f.Type()), outcome.Response)
	return resp, outcome
}

func (d *Dispatcher) fail(outcome *Outcome, id ErrorID) (Frame, Outcome) {
	outcome.Response, outcome.Error = Error, id
	return NewErrorResponse(id), *outcome
}
