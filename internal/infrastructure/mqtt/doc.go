// Package mqtt publishes service events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// Sensor create, update and delete events are published to
// {prefix}/sensors/{id}/{action} with the sensor JSON as payload. The
// service status (online/offline) is retained on {prefix}/system/status.
//
// TLS should be enabled (cfg.Broker.TLS=true) outside local development.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := client.Topics().SensorEvent(id, "updated")
//	client.Publish(topic, payload, 1, false)
package mqtt
