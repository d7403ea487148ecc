// Package mqtt provides MQTT client connectivity for the UPnP stack.
//
// This package manages:
//   - Connection to Mosquitto broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The stack uses MQTT as an outbound event bus: registry lifecycle and
// decoded LastChange values are published for other services to consume.
// The broker (Mosquitto) decouples those consumers from the stack itself.
//
//	UPnP stack → MQTT Broker → Consumers (dashboards, automations, loggers)
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all registry lifecycle messages
//	err = client.Subscribe(mqtt.Topics{}.AllRegistryDevices(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish a state value
//	topic := mqtt.Topics{}.LastChangeValue("uuid:abc", "RenderingControl", "Volume")
//	client.Publish(topic, []byte(`{"value":"24"}`), 1, false)
package mqtt
