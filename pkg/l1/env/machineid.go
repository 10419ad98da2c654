package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// MachineID retrieves an ID identifying the machine without exposing the
// raw machine id.
func MachineID() string {
	id, err := machineid.ProtectedID("rccar")
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return "unknown"
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
