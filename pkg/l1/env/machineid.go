// Package env provides the defaults shared by vehicle and operator
// side configurations.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
)

// AppID salts the machine ID so the raw ID is never published.
const AppID = "rover.go"

// MachineID retrieves the unique ID identifying the machine, or the
// host name when the machine has no ID.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err != nil || len(id) < 12 {
		host, _ := os.Hostname()
		return host
	}
	return id[:12]
}
