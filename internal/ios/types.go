// Package ios drives iOS simulators through xcrun simctl and exposes them,
// together with fixture seeding, as MCP tools.
package ios

// Device represents an iOS simulator device.
type Device struct {
	UDID              string `json:"udid"`
	Name              string `json:"name"`
	State             string `json:"state"`
	IsAvailable       bool   `json:"isAvailable"`
	DeviceTypeID      string `json:"deviceTypeIdentifier"`
	RuntimeID         string `json:"runtimeIdentifier,omitempty"`
	RuntimeName       string `json:"runtimeName,omitempty"`
	LastBootedAt      string `json:"lastBootedAt,omitempty"`
	DataPath          string `json:"dataPath,omitempty"`
	LogPath           string `json:"logPath,omitempty"`
	AvailabilityError string `json:"availabilityError,omitempty"`
}

// DeviceList represents the JSON output from simctl list devices.
type DeviceList struct {
	Devices map[string][]Device `json:"devices"`
}
