package eventbridge

import "time"

// Lifecycle event names carried in DeviceMessage.Event.
const (
	EventAdded   = "added"
	EventRemoved = "removed"
)

// DeviceMessage announces a device appearing in or disappearing from
// the registry.
// Topic: upnp/registry/device/{udn}
// QoS: 1, Retained: Yes
type DeviceMessage struct {
	// UDN is the device's unique device name, with the uuid: prefix.
	UDN string `json:"udn"`

	// Event is "added" or "removed" (removal covers expiration).
	Event string `json:"event"`

	// Timestamp is when the event was published (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// FriendlyName is the device's human-readable name.
	FriendlyName string `json:"friendly_name,omitempty"`

	// DeviceType is the device type URN.
	DeviceType string `json:"device_type"`

	// Origin is "local" or "remote".
	Origin string `json:"origin"`

	// Services lists the service type URNs of the whole tree.
	Services []string `json:"services,omitempty"`
}

// ValueMessage carries one evented state variable value.
// Topic: upnp/lastchange/{udn}/{service}/{variable}
// QoS: 1, Retained: No
type ValueMessage struct {
	// UDN is the owning device's unique device name.
	UDN string `json:"udn"`

	// Service is the service identifier (the ID part, not the full URN).
	Service string `json:"service"`

	// Variable is the state variable name.
	Variable string `json:"variable"`

	// Value is the UPnP-formatted value string.
	Value string `json:"value"`

	// Channel is the audio channel for channel-scoped variables.
	Channel string `json:"channel,omitempty"`

	// Timestamp is when the value was published (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`
}
