package comm

import "fmt"

// Frame sizes and protocol constants.
const (
	// ProtocolVersion is the implemented version of the L0 protocol.
	ProtocolVersion int16 = 1
	// RequestSize is the size of a request frame including checksum.
	RequestSize = 16
	// ResponseSize is the size of a response frame including checksum.
	ResponseSize = 16
	// FrameSize is the common size of request and response frames.
	FrameSize = RequestSize
)

// Command identifies a request sent by the host.
type Command byte

// Commands
const (
	Noop               Command = 0x01
	GetProtocolVersion Command = 0x02
	GetFeatures        Command = 0x03
	TurnCar            Command = 0x04
	AdjustSpeed        Command = 0x05
	RotateCam          Command = 0x06
	GetBatteryState    Command = 0x07
)

// Response identifies a response sent by the car.
type Response byte

// Responses
const (
	RequestOK        Response = 0x01
	Error            Response = 0x02
	BatteryNearEmpty Response = 0x03
	Version          Response = 0x04
	Features         Response = 0x05
	BatteryState     Response = 0x06
)

// ErrorID is the payload of an Error response.
type ErrorID int16

// ErrorIDs
const (
	UndefinedError      ErrorID = 0x00
	InvalidCommandError ErrorID = 0x01
	UnknownCommandError ErrorID = 0x02
	ProcessCommandError ErrorID = 0x03
)

// payload lengths indexed by type value - 1.
var (
	requestPayloadLen  = [...]int{0, 0, 0, 2, 2, 4, 0}
	responsePayloadLen = [...]int{0, 2, 0, 2, 9, 2}
)

var commandNames = [...]string{
	"Noop",
	"GetProtocolVersion",
	"GetFeatures",
	"TurnCar",
	"AdjustSpeed",
	"RotateCam",
	"GetBatteryState",
}

var responseNames = [...]string{
	"OK",
	"Error",
	"BatteryNearEmpty",
	"ProtocolVersion",
	"Features",
	"BatteryState",
}

var errorNames = [...]string{
	"UndefinedError",
	"InvalidCommandError",
	"UnknownCommandError",
	"ProcessCommandError",
}

// IsValid checks if c is a defined command.
func (c Command) IsValid() bool {
	return c >= Noop && c <= GetBatteryState
}

// PayloadLen returns the declared payload length of the command.
// It panics for an undefined command.
func (c Command) PayloadLen() int {
	if !c.IsValid() {
		panic(fmt.Sprintf("payload length of undefined command 0x%02x", byte(c)))
	}
	return requestPayloadLen[c-1]
}

// Expects returns the response type a successful command is answered with.
func (c Command) Expects() Response {
	switch c {
	case GetProtocolVersion:
		return Version
	case GetFeatures:
		return Features
	case GetBatteryState:
		return BatteryState
	}
	return RequestOK
}

func (c Command) String() string {
	if c.IsValid() {
		return commandNames[c-1]
	}
	return fmt.Sprintf("Command(0x%02x)", byte(c))
}

// IsValid checks if r is a defined response.
func (r Response) IsValid() bool {
	return r >= RequestOK && r <= BatteryState
}

// PayloadLen returns the declared payload length of the response.
// It panics for an undefined response.
func (r Response) PayloadLen() int {
	if !r.IsValid() {
		panic(fmt.Sprintf("payload length of undefined response 0x%02x", byte(r)))
	}
	return responsePayloadLen[r-1]
}

func (r Response) String() string {
	if r.IsValid() {
		return responseNames[r-1]
	}
	return fmt.Sprintf("Response(0x%02x)", byte(r))
}

func (e ErrorID) String() string {
	if e >= 0 && int(e) < len(errorNames) {
		return errorNames[e]
	}
	return fmt.Sprintf("ErrorID(%d)", int16(e))
}

// DecodeI16 reads a big-endian int16 at offset.
func DecodeI16(payload []byte, offset int) int16 {
	return int16(uint16(payload[offset])<<8 | uint16(payload[offset+1]))
}

// EncodeI16 writes value as big-endian int16 at offset.
func EncodeI16(value int16, payload []byte, offset int) {
	payload[offset] = byte(uint16(value) >> 8)
	payload[offset+1] = byte(value)
}

// Frame is a request or response frame as sent over the wire.
// The last byte is the checksum of the preceding bytes.
type Frame [FrameSize]byte

// Type returns the type byte.
func (f *Frame) Type() byte {
	return f[0]
}

// Payload returns the bytes between type byte and checksum.
func (f *Frame) Payload() []byte {
	return f[1 : FrameSize-1]
}

// Seal stamps the checksum.
func (f *Frame) Seal() *Frame {
	f[FrameSize-1] = Checksum(f[:FrameSize-1])
	return f
}

// Verify checks the checksum.
func (f *Frame) Verify() bool {
	return f[FrameSize-1] == Checksum(f[:FrameSize-1])
}

// NewRequest builds a sealed request frame. payload is truncated or zero
// padded to the declared length of cmd.
func NewRequest(cmd Command, payload []byte) Frame {
	var f Frame
	f[0] = byte(cmd)
	if n := cmd.PayloadLen(); n > 0 {
		copy(f[1:1+n], payload)
	}
	f.Seal()
	return f
}

// NewResponse builds a sealed response frame. payload is truncated or zero
// padded to the declared length of resp.
func NewResponse(resp Response, payload []byte) Frame {
	var f Frame
	f[0] = byte(resp)
	if n := resp.PayloadLen(); n > 0 {
		copy(f[1:1+n], payload)
	}
	f.Seal()
	return f
}

// NewErrorResponse builds a sealed Error response carrying id.
func NewErrorResponse(id ErrorID) Frame {
	var f Frame
	f[0] = byte(Error)
	EncodeI16(int16(id), f[:], 1)
	f.Seal()
	return f
}
