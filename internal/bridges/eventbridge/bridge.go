package eventbridge

import (
	"encoding/json"
	"time"

	"github.com/nerrad567/gray-logic-upnp/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-upnp/internal/lastchange"
	"github.com/nerrad567/gray-logic-upnp/internal/meta"
	"github.com/nerrad567/gray-logic-upnp/internal/registry"
)

// MQTTClient is the interface for MQTT operations.
// This allows mocking in tests and flexibility in implementation.
type MQTTClient interface {
	// Publish sends a message to a topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// IsConnected returns true if connected to the broker.
	IsConnected() bool
}

// MetricWriter writes numeric state telemetry.
// Satisfied by *influxdb.Client.
type MetricWriter interface {
	WriteStateMetric(udn string, service string, variable string, value float64)
}

// Logger defines the logging interface used by the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options holds the bridge's collaborators. MQTT and Metrics are both
// optional; a missing sink is skipped.
type Options struct {
	MQTT    MQTTClient
	Metrics MetricWriter
	Logger  Logger
}

// Bridge publishes registry lifecycle events and evented state values
// to MQTT and InfluxDB. All methods are safe for concurrent use; the
// bridge itself holds no mutable state.
type Bridge struct {
	mqtt    MQTTClient
	metrics MetricWriter
	topics  mqtt.Topics
	logger  Logger
}

var _ registry.Listener = (*Bridge)(nil)

// New creates a bridge from its options.
func New(opts Options) *Bridge {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Bridge{
		mqtt:    opts.MQTT,
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// DeviceAdded publishes a retained appearance message.
func (b *Bridge) DeviceAdded(d *meta.Device, local bool) {
	b.publishLifecycle(EventAdded, d, local)
}

// DeviceRemoved publishes a retained disappearance message.
// Expiration-triggered removals arrive here too.
func (b *Bridge) DeviceRemoved(d *meta.Device, local bool) {
	b.publishLifecycle(EventRemoved, d, local)
}

func (b *Bridge) publishLifecycle(event string, d *meta.Device, local bool) {
	if b.mqtt == nil {
		return
	}

	origin := "remote"
	if local {
		origin = "local"
	}
	msg := DeviceMessage{
		UDN:          string(d.UDN()),
		Event:        event,
		Timestamp:    time.Now().UTC(),
		FriendlyName: d.Details.FriendlyName,
		DeviceType:   d.Type.String(),
		Origin:       origin,
	}
	for _, s := range d.AllServices() {
		msg.Services = append(msg.Services, s.Type.String())
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("marshalling device message", "udn", d.UDN(), "error", err)
		return
	}

	topic := b.topics.RegistryDevice(string(d.UDN()))
	if err := b.mqtt.Publish(topic, payload, 1, true); err != nil {
		b.logger.Warn("publishing device message",
			"topic", topic, "udn", d.UDN(), "error", err)
	}
}

// PublishValues publishes a batch of evented values for one service,
// typically the decoded instance of a LastChange event. Values that
// cannot be formatted are skipped with a log entry; publishing is
// best-effort per value.
func (b *Bridge) PublishValues(svc *meta.Service, values []lastchange.EventedValue) {
	if svc == nil || svc.Device() == nil {
		return
	}
	udn := string(svc.Device().UDN())

	for _, v := range values {
		formatted, err := v.Kind().Datatype().Format(v.Value())
		if err != nil {
			b.logger.Warn("formatting evented value",
				"udn", udn, "variable", v.Kind(), "error", err)
			continue
		}

		if b.mqtt != nil {
			b.publishValue(udn, svc.ID.ID, v, formatted)
		}
		if b.metrics != nil {
			if f, ok := numericValue(v.Value()); ok {
				b.metrics.WriteStateMetric(udn, svc.ID.ID, string(v.Kind()), f)
			}
		}
	}
}

func (b *Bridge) publishValue(udn, service string, v lastchange.EventedValue, formatted string) {
	msg := ValueMessage{
		UDN:       udn,
		Service:   service,
		Variable:  string(v.Kind()),
		Value:     formatted,
		Channel:   v.Channel(),
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("marshalling value message", "udn", udn, "error", err)
		return
	}

	topic := b.topics.LastChangeValue(udn, service, string(v.Kind()))
	if err := b.mqtt.Publish(topic, payload, 1, false); err != nil {
		b.logger.Warn("publishing value message", "topic", topic, "error", err)
	}
}

// numericValue maps evented value types onto a telemetry float.
// Booleans record as 0/1; non-numeric kinds record nothing.
func numericValue(val any) (float64, bool) {
	switch n := val.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
