package msgs

import (
	"fmt"

	"github.com/golang/protobuf/proto"
)

// TypeID masks
const (
	TypeIDMaskKind  uint32 = 0x80000000
	TypeIDMaskGroup uint32 = 0x7fff0000
	TypeIDMaskID    uint32 = 0x0000ffff
	TypeIDMaskReply uint32 = 0x00008000
)

// Message Kinds
const (
	TypeIDKindCommand uint32 = 0x00000000
	TypeIDKindEvent   uint32 = 0x80000000
)

// Message is a message carried in a Typed envelope.
type Message interface {
	proto.Message
	// TypeID identifies the message on the wire.
	TypeID() uint32
	// NewMessage creates an empty message of the same type.
	NewMessage() Message
}

// ErrUnknownType indicates unknown type id.
type ErrUnknownType struct {
	TypeID uint32
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

// Typed wraps a message with type information.
type Typed struct {
	TypeId   uint32 `protobuf:"varint,1,opt,name=type_id,proto3" json:"type_id,omitempty"`
	Sequence uint32 `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Message  []byte `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Typed) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Typed) Reset() { *m = Typed{} }

// String implements proto.Message.
func (m *Typed) String() string { return proto.CompactTextString(m) }

// IsEvent checks the kind of the wrapped message.
func (m *Typed) IsEvent() bool {
	return m.TypeId&TypeIDMaskKind == TypeIDKindEvent
}

// MessageTypes are predefined mapping of type ID to messages.
var MessageTypes = map[uint32]Message{
	CarStatusTypeID: (*CarStatus)(nil),
}

// TypedFrom creates a Typed from a message.
func TypedFrom(msg Message, seq uint32) (*Typed, error) {
	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return &Typed{TypeId: msg.TypeID(), Sequence: seq, Message: data}, nil
}

// Decode decodes the envelope into actual message.
func (m *Typed) Decode() (Message, error) {
	msgType, ok := MessageTypes[m.TypeId]
	if !ok {
		return nil, &ErrUnknownType{TypeID: m.TypeId}
	}
	msg := msgType.NewMessage()
	if err := proto.Unmarshal(m.Message, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Encode serializes msg with its envelope.
func Encode(msg Message, seq uint32) ([]byte, error) {
	typed, err := TypedFrom(msg, seq)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(typed)
}

// Decode parses an envelope and the message inside.
func Decode(data []byte) (*Typed, Message, error) {
	var typed Typed
	if err := proto.Unmarshal(data, &typed); err != nil {
		return nil, nil, err
	}
	msg, err := typed.Decode()
	return &typed, msg, err
}
