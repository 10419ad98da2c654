package comm

import (
	"fmt"
	"math"
)

// UnitMax is the wire value of 1.0.
const UnitMax = math.MaxInt16

// ScaleUnit converts v in [-1, 1] to the wire range.
func ScaleUnit(v float64) (int16, error) {
	if math.IsNaN(v) || v < -1 || v > 1 {
		return 0, fmt.Errorf("value %v out of range [-1, 1]", v)
	}
	return int16(v * UnitMax), nil
}

// Symmetric folds math.MinInt16 into -math.MaxInt16 so magnitudes are the
// same in both directions.
func Symmetric(v int16) int16 {
	if v == math.MinInt16 {
		return -math.MaxInt16
	}
	return v
}

// RangeConvert maps a non-negative wire value to [0, max].
func RangeConvert(v int16, max float64) (float64, error) {
	if v < 0 {
		return 0, fmt.Errorf("negative value %d", v)
	}
	return float64(v) / UnitMax * max, nil
}
