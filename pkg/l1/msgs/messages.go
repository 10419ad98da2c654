package msgs

import (
	"github.com/golang/protobuf/proto"
)

// TypeID Groups
const (
	GroupCar    uint32 = 0x00010000
	GroupCustom uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CarStatusTypeID uint32 = TypeIDKindEvent | GroupCar | 0x0001
)

// Pose2D is the estimated pose of a simulated car.
type Pose2D struct {
	X       float64 `protobuf:"fixed64,1,opt,name=x,proto3" json:"x,omitempty"`
	Y       float64 `protobuf:"fixed64,2,opt,name=y,proto3" json:"y,omitempty"`
	Heading float64 `protobuf:"fixed64,3,opt,name=heading,proto3" json:"heading,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Pose2D) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Pose2D) Reset() { *m = Pose2D{} }

// String implements proto.Message.
func (m *Pose2D) String() string { return proto.CompactTextString(m) }

// CarStatus is an Event message reflecting the car state.
type CarStatus struct {
	Connected bool    `protobuf:"varint,1,opt,name=connected,proto3" json:"connected,omitempty"`
	Speed     int32   `protobuf:"varint,2,opt,name=speed,proto3" json:"speed,omitempty"`
	Rotation  int32   `protobuf:"varint,3,opt,name=rotation,proto3" json:"rotation,omitempty"`
	LeftPwm   uint32  `protobuf:"varint,4,opt,name=left_pwm,proto3" json:"left_pwm,omitempty"`
	RightPwm  uint32  `protobuf:"varint,5,opt,name=right_pwm,proto3" json:"right_pwm,omitempty"`
	PanAngle  int32   `protobuf:"varint,6,opt,name=pan_angle,proto3" json:"pan_angle,omitempty"`
	TiltAngle int32   `protobuf:"varint,7,opt,name=tilt_angle,proto3" json:"tilt_angle,omitempty"`
	Battery   int32   `protobuf:"varint,8,opt,name=battery,proto3" json:"battery,omitempty"`
	NearEmpty bool    `protobuf:"varint,9,opt,name=near_empty,proto3" json:"near_empty,omitempty"`
	Cells     []int32 `protobuf:"varint,10,rep,packed,name=cells,proto3" json:"cells,omitempty"`
	Pose      *Pose2D `protobuf:"bytes,11,opt,name=pose,proto3" json:"pose,omitempty"`
	Frames    uint64  `protobuf:"varint,12,opt,name=frames,proto3" json:"frames,omitempty"`
}

// NewMessage implements Message.
func (m *CarStatus) NewMessage() Message { return &CarStatus{} }

// TypeID implements Message.
func (m *CarStatus) TypeID() uint32 { return CarStatusTypeID }

// ProtoMessage implements proto.Message.
func (m *CarStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CarStatus) Reset() { *m = CarStatus{} }

// String implements proto.Message.
func (m *CarStatus) String() string { return proto.CompactTextString(m) }
