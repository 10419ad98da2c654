package comm

// FeaturesPayloadLen is the payload size of a Features response.
const FeaturesPayloadLen = 9

// feature bits in byte 0 of the Features payload.
const (
	featureAdjustableSpeed byte = 1 << iota
	featureDriveBackward
	featureBatteryPower
)

// CarFeatures describes the capabilities of a car.
type CarFeatures struct {
	AdjustableSpeed bool
	DriveBackward   bool
	BatteryPower    bool
	CameraPanMin    int16
	CameraPanMax    int16
	CameraTiltMin   int16
	CameraTiltMax   int16
}

// Encode writes the 9-byte Features payload into b.
func (f CarFeatures) Encode(b []byte) {
	_ = b[FeaturesPayloadLen-1]
	var bits byte
	if f.AdjustableSpeed {
		bits |= featureAdjustableSpeed
	}
	if f.DriveBackward {
		bits |= featureDriveBackward
	}
	if f.BatteryPower {
		bits |= featureBatteryPower
	}
	b[0] = bits
	EncodeI16(f.CameraPanMin, b, 1)
	EncodeI16(f.CameraPanMax, b, 3)
	EncodeI16(f.CameraTiltMin, b, 5)
	EncodeI16(f.CameraTiltMax, b, 7)
}

// DecodeFeatures parses a Features payload. Reserved bits are ignored.
func DecodeFeatures(b []byte) CarFeatures {
	_ = b[FeaturesPayloadLen-1]
	return CarFeatures{
		AdjustableSpeed: b[0]&featureAdjustableSpeed != 0,
		DriveBackward:   b[0]&featureDriveBackward != 0,
		BatteryPower:    b[0]&featureBatteryPower != 0,
		CameraPanMin:    DecodeI16(b, 1),
		CameraPanMax:    DecodeI16(b, 3),
		CameraTiltMin:   DecodeI16(b, 5),
		CameraTiltMax:   DecodeI16(b, 7),
	}
}

// SupportPanCamera reports whether the camera can pan.
func (f CarFeatures) SupportPanCamera() bool {
	return f.CameraPanMin != 0 || f.CameraPanMax != 0
}

// SupportTiltCamera reports whether the camera can tilt.
func (f CarFeatures) SupportTiltCamera() bool {
	return f.CameraTiltMin != 0 || f.CameraTiltMax != 0
}
