package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteStateMetric writes one evented state variable value to InfluxDB.
//
// This is the primary method for recording UPnP state telemetry.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - udn: The owning device's unique device name
//   - service: Service identifier (e.g., "RenderingControl")
//   - variable: State variable name (e.g., "Volume")
//   - value: The numeric value to record
//
// Example:
//
//	client.WriteStateMetric("uuid:1234", "RenderingControl", "Volume", 24)
func (c *Client) WriteStateMetric(udn string, service string, variable string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"upnp_state",
		map[string]string{
			"udn":      udn,
			"service":  service,
			"variable": variable,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRegistrySize writes the registry's device counts.
//
// Used for monitoring discovery churn over time.
//
// Parameters:
//   - local: Number of registered local root devices
//   - remote: Number of registered remote root devices
func (c *Client) WriteRegistrySize(local int, remote int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"upnp_registry",
		nil,
		map[string]interface{}{
			"local":  local,
			"remote": remote,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "core-01"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
