package car

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	testCases := []struct {
		args  []string
		names []string
		vals  []int16
		err   bool
	}{
		{[]string{"1"}, []string{"SPEED"}, []int16{32767}, false},
		{[]string{"-1"}, []string{"SPEED"}, []int16{-32767}, false},
		{[]string{"0.5", "0"}, []string{"PAN", "TILT"}, []int16{16383, 0}, false},
		{[]string{"0.5", "0", "extra"}, []string{"PAN", "TILT"}, []int16{16383, 0}, false},
		{[]string{"0.5"}, []string{"PAN", "TILT"}, nil, true},
		{[]string{}, []string{"SPEED"}, nil, true},
		{[]string{"fast"}, []string{"SPEED"}, nil, true},
		{[]string{"1.5"}, []string{"SPEED"}, nil, true},
	}
	for _, tc := range testCases {
		vals, err := ParseUnits(tc.args, tc.names...)
		if tc.err {
			require.Error(t, err, "%v", tc.args)
			continue
		}
		require.NoError(t, err, "%v", tc.args)
		require.Equal(t, tc.vals, vals)
	}
}

func TestBatteryPercent(t *testing.T) {
	percent, err := BatteryPercent(32767)
	require.NoError(t, err)
	require.Equal(t, 100.0, percent)
	_, err = BatteryPercent(-1)
	require.Error(t, err)
}
