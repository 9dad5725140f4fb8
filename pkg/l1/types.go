// Package l1 names a vehicle on the remote links and defines the
// topics it is reachable on.
package l1

import "strings"

// VehicleRef is a reference to a vehicle.
type VehicleRef struct {
	// Type is the vehicle model.
	Type string
	// ID is unique ID of the device.
	ID string
}

// Name retrieves the name from ref.
func (r VehicleRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates VehicleRef is valid.
func (r VehicleRef) IsValid() bool {
	return r.Type != "" && r.ID != "" &&
		!strings.ContainsAny(r.Type, "/+#") && !strings.ContainsAny(r.ID, "/+#")
}

// ParseVehicleRef parses "type/id".
func ParseVehicleRef(name string) (ref VehicleRef, ok bool) {
	items := strings.Split(name, "/")
	if len(items) != 2 {
		return
	}
	ref = VehicleRef{Type: items[0], ID: items[1]}
	return ref, ref.IsValid()
}

// VehicleMeta provides metadata for a vehicle.
type VehicleMeta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// VehicleInfo provides information of a vehicle.
type VehicleInfo struct {
	Ref  VehicleRef
	Meta VehicleMeta
}

// Topic suffixes under a vehicle name.
const (
	// TopicCmd carries command bytes to the vehicle.
	TopicCmd = "cmd"
	// TopicTelemetry carries telemetry text from the vehicle.
	TopicTelemetry = "tlm"
	// TopicMeta is the retained VehicleMeta, empty when offline.
	TopicMeta = "meta"
)

// Topic returns the topic of a vehicle.
func (r VehicleRef) Topic(suffix string) string {
	return r.Name() + "/" + suffix
}
