package comm

// Vehicle is the capability set the Dispatcher drives.
// All methods are invoked from the dispatching goroutine only.
type Vehicle interface {
	// Features reports static capabilities.
	Features() CarFeatures
	// TurnCar sets rotation. Negative is left, positive is right.
	TurnCar(rotation int16) bool
	// AdjustSpeed sets speed. Negative is backward.
	AdjustSpeed(speed int16) bool
	// RotateCam points the camera.
	RotateCam(pan, tilt int16) bool
	// BatteryState returns the charge in 0..32767, negative if unknown.
	BatteryState() int16
	// BatteryNearEmpty overrides every valid command when true.
	BatteryNearEmpty() bool
}

// Initializer is optionally implemented by a Vehicle needing set up
// before the first command.
type Initializer interface {
	SetUp() error
}

// Unsupported provides the defaults of optional capabilities.
// Embed it into a Vehicle lacking camera or battery.
type Unsupported struct{}

// RotateCam implements Vehicle.
func (Unsupported) RotateCam(pan, tilt int16) bool { return false }

// BatteryState implements Vehicle.
func (Unsupported) BatteryState() int16 { return -1 }

// BatteryNearEmpty implements Vehicle.
func (Unsupported) BatteryNearEmpty() bool { return false }

// Transport is the byte link between car and host as seen by the car.
type Transport interface {
	// PowerOn brings the link up.
	PowerOn() error
	// IsConnected reports whether a host is attached.
	IsConnected() bool
	// Read copies at most one pending packet into b without blocking.
	// It returns 0, nil when nothing has arrived.
	Read(b []byte) (int, error)
	// Write transmits one response.
	Write(b []byte) (int, error)
}
