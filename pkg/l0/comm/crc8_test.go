package comm

import (
	"math/rand"
	"testing"

	"github.com/sigurn/crc8"
	"github.com/stretchr/testify/require"
)

func TestChecksumCheckValue(t *testing.T) {
	require.Equal(t, byte(0xf4), Checksum([]byte("123456789")))
	require.Equal(t, byte(0), Checksum(nil))
	require.Equal(t, byte(0), Checksum(make([]byte, RequestSize-1)))
}

func TestChecksumTable(t *testing.T) {
	table := crc8.MakeTable(crc8.CRC8)
	for n := 0; n < 256; n++ {
		// with zero init and no final xor a single byte yields its table entry.
		require.Equalf(t, crc8.Checksum([]byte{byte(n)}, table), crcTable[n], "crcTable[%d] mismatch", n)
	}
}

func TestChecksumMatchesReference(t *testing.T) {
	table := crc8.MakeTable(crc8.CRC8)
	rnd := rand.New(rand.NewSource(1))
	buf := make([]byte, RequestSize-1)
	for i := 0; i < 1000; i++ {
		rnd.Read(buf)
		expected := crc8.Checksum(buf, table)
		require.Equalf(t, expected, Checksum(buf), "% x", buf)
		// state is reset on every call.
		require.Equal(t, expected, Checksum(buf))
	}
}

func TestChecksumFrames(t *testing.T) {
	testCases := []struct {
		name   string
		prefix []byte
		crc    byte
	}{
		{name: "adjust speed max", prefix: []byte{0x05, 0x7f, 0xff}, crc: 0x54},
		{name: "ok", prefix: []byte{0x01}, crc: 0xb5},
		{name: "unknown command error", prefix: []byte{0x02, 0x00, 0x02}, crc: 0x42},
		{name: "invalid command error", prefix: []byte{0x02, 0x00, 0x01}, crc: 0xf9},
		{name: "unknown request", prefix: []byte{0x09}, crc: 0x06},
		{name: "battery near empty", prefix: []byte{0x03}, crc: 0xd8},
		{name: "get protocol version", prefix: []byte{0x02}, crc: 0x6d},
		{name: "protocol version", prefix: []byte{0x04, 0x00, 0x01}, crc: 0x4e},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var f Frame
			copy(f[:], tc.prefix)
			require.Equal(t, tc.crc, Checksum(f[:FrameSize-1]))
		})
	}
}
