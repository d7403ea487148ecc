package mqtt

import "fmt"

// Topic prefixes for the UPnP stack's MQTT surface.
//
// All topics use the flat scheme: upnp/{category}/{udn}/...
// UDNs keep their canonical "uuid:" prefix; colons are legal in MQTT
// topic segments.
const (
	// TopicPrefix is the base for all stack topics.
	TopicPrefix = "upnp"

	// TopicPrefixRegistry is the base for registry lifecycle topics.
	TopicPrefixRegistry = "upnp/registry"

	// TopicPrefixLastChange is the base for evented state value topics.
	TopicPrefixLastChange = "upnp/lastchange"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "upnp/system"
)

// Topics provides builders for the stack's MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	t := topics.RegistryDevice("uuid:1234")
//	// Returns: "upnp/registry/device/uuid:1234"
type Topics struct{}

// =============================================================================
// Registry Topics
// =============================================================================

// RegistryDevice returns the lifecycle topic for one device.
// Lifecycle messages are published retained so late subscribers see the
// current device population.
//
// Example: upnp/registry/device/uuid:1234-5678
func (Topics) RegistryDevice(udn string) string {
	return fmt.Sprintf("%s/device/%s", TopicPrefixRegistry, udn)
}

// =============================================================================
// LastChange Topics
// =============================================================================

// LastChangeValue returns the topic for one evented state variable.
//
// Example: upnp/lastchange/uuid:1234-5678/RenderingControl/Volume
func (Topics) LastChangeValue(udn, serviceID, variable string) string {
	return fmt.Sprintf("%s/%s/%s/%s", TopicPrefixLastChange, udn, serviceID, variable)
}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the stack status topic (online/offline will).
//
// Example: upnp/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// SystemShutdown returns the shutdown signal topic.
//
// Example: upnp/system/shutdown
func (Topics) SystemShutdown() string {
	return fmt.Sprintf("%s/shutdown", TopicPrefixSystem)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllRegistryDevices returns a pattern matching all device lifecycle
// messages.
//
// Pattern: upnp/registry/device/+
func (Topics) AllRegistryDevices() string {
	return fmt.Sprintf("%s/device/+", TopicPrefixRegistry)
}

// AllLastChangeValues returns a pattern matching every evented value of
// every device.
//
// Pattern: upnp/lastchange/+/+/+
func (Topics) AllLastChangeValues() string {
	return fmt.Sprintf("%s/+/+/+", TopicPrefixLastChange)
}

// DeviceLastChangeValues returns a pattern matching every evented value
// of one device.
//
// Pattern: upnp/lastchange/{udn}/+/+
func (Topics) DeviceLastChangeValues(udn string) string {
	return fmt.Sprintf("%s/%s/+/+", TopicPrefixLastChange, udn)
}

// AllTopics returns a pattern matching all stack topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: upnp/#
func (Topics) AllTopics() string {
	return "upnp/#"
}
