package comm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScaleUnit(t *testing.T) {
	testCases := []struct {
		v      float64
		expect int16
		fail   bool
	}{
		{v: 0, expect: 0},
		{v: 1, expect: math.MaxInt16},
		{v: -1, expect: -math.MaxInt16},
		{v: 0.5, expect: 16383},
		{v: 1.01, fail: true},
		{v: -1.5, fail: true},
		{v: math.NaN(), fail: true},
	}
	for _, tc := range testCases {
		v, err := ScaleUnit(tc.v)
		if tc.fail {
			require.Errorf(t, err, "%v", tc.v)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.expect, v)
	}
}

func TestSymmetric(t *testing.T) {
	require.Equal(t, int16(-math.MaxInt16), Symmetric(math.MinInt16))
	require.Equal(t, int16(math.MaxInt16), Symmetric(math.MaxInt16))
	require.Equal(t, int16(-5), Symmetric(-5))
}

func TestRangeConvert(t *testing.T) {
	v, err := RangeConvert(math.MaxInt16, 180)
	require.NoError(t, err)
	require.Equal(t, 180.0, v)
	v, err = RangeConvert(0, 180)
	require.NoError(t, err)
	require.Zero(t, v)
	_, err = RangeConvert(-1, 180)
	require.Error(t, err)
}
