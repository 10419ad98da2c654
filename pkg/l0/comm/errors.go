package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected indicates no host is attached to the transport.
	ErrNotConnected = errors.New("not connected")
	// ErrChecksum indicates a reply failed CRC validation.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrShortReply indicates the link delivered less than a frame.
	ErrShortReply = errors.New("short reply")
	// ErrBatteryNearEmpty is returned when the car refuses a command
	// because of low battery.
	ErrBatteryNearEmpty = errors.New("battery near empty")
)

// CommandError wraps the error id of an Error reply.
type CommandError struct {
	Command Command
	ID      ErrorID
}

// Error implements error.
func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.ID)
}

// UnknownResponseError indicates a reply with an undefined type byte.
type UnknownResponseError struct {
	Type byte
}

// Error implements error.
func (e *UnknownResponseError) Error() string {
	return fmt.Sprintf("unknown response 0x%02x", e.Type)
}

// UnexpectedResponseError indicates a well-formed reply not matching
// the command.
type UnexpectedResponseError struct {
	Command  Command
	Response Response
}

// Error implements error.
func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("%s: unexpected response %s", e.Command, e.Response)
}

// VersionMismatchError is returned by Handshake.
type VersionMismatchError struct {
	Version int16
}

// Error implements error.
func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("protocol version %d not supported, want %d", e.Version, ProtocolVersion)
}
