package msgs

import (
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/require"
)

func TestTypedEnvelope(t *testing.T) {
	status := &CarStatus{
		Connected: true,
		Speed:     -32767,
		LeftPwm:   255,
		Battery:   21786,
		Cells:     []int32{800, 600},
		Pose:      &Pose2D{X: 1.5, Heading: -0.5},
	}
	data, err := Encode(status, 7)
	require.NoError(t, err)

	typed, msg, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, CarStatusTypeID, typed.TypeId)
	require.Equal(t, uint32(7), typed.Sequence)
	require.True(t, typed.IsEvent())
	require.True(t, proto.Equal(status, msg))
}

func TestDecodeUnknownType(t *testing.T) {
	data, err := proto.Marshal(&Typed{TypeId: GroupCustom | 1})
	require.NoError(t, err)
	typed, _, err := Decode(data)
	require.Equal(t, &ErrUnknownType{TypeID: GroupCustom | 1}, err)
	require.False(t, typed.IsEvent())
}
