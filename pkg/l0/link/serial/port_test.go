package serial

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	testCases := []struct {
		url  string
		conf Config
		err  bool
	}{
		{"serial:///dev/ttyUSB0", Config{Device: "/dev/ttyUSB0", BaudRate: DefaultBaudRate, Gap: DefaultGap}, false},
		{"serial:///dev/ttyS1?baud=9600&gap=5ms", Config{Device: "/dev/ttyS1", BaudRate: 9600, Gap: 5 * time.Millisecond}, false},
		{"serial:COM3?baud=57600", Config{Device: "COM3", BaudRate: 57600, Gap: DefaultGap}, false},
		{"serial://", Config{}, true},
		{"serial:///dev/ttyS0?baud=fast", Config{}, true},
		{"serial:///dev/ttyS0?gap=soon", Config{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			u, err := url.Parse(tc.url)
			require.NoError(t, err)
			conf, err := ParseURL(u)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.conf, conf)
		})
	}
}
