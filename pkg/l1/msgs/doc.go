// Package msgs provides L1 telemetry messages and their envelope.
package msgs

// L1 telemetry is published by the car daemon for monitors,
// each message wrapped in a Typed envelope encoded with protobuf.
//
// Producer: car daemon
// Consumer: monitors
