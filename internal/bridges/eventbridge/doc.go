// Package eventbridge publishes registry lifecycle and evented state
// changes outward.
//
// The bridge is a registry.Listener: device appearances and
// disappearances become retained MQTT messages on
// upnp/registry/device/{udn}, so late subscribers always see the
// current device population. Evented state values handed to
// PublishValues become per-variable messages on
// upnp/lastchange/{udn}/{service}/{variable}, and numeric values are
// additionally written to InfluxDB as upnp_state points.
//
// Both sinks are optional. A bridge built without an MQTT client or
// without a metrics writer silently skips that sink; with neither it is
// a no-op, which keeps the parsing/typing/registry core free of any
// hard infrastructure dependency.
package eventbridge
