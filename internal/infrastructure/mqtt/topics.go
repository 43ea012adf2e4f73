package mqtt

// DefaultTopicPrefix is the root of every topic published by the service.
const DefaultTopicPrefix = "sensormonitor"

// Topics builds the MQTT topics under one prefix.
//
//	topics := mqtt.Topics{Prefix: "sensormonitor"}
//	topic := topics.SensorEvent("6f1c0c8e-...", "updated")
//	// Returns: "sensormonitor/sensors/6f1c0c8e-.../updated"
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return t.Prefix
}

// SensorEvent returns the topic for a lifecycle change of one sensor.
//
// Example: sensormonitor/sensors/{id}/created
func (t Topics) SensorEvent(sensorID, action string) string {
	return t.prefix() + "/sensors/" + sensorID + "/" + action
}

// SystemStatus returns the retained online/offline status topic.
//
// Example: sensormonitor/system/status
func (t Topics) SystemStatus() string {
	return t.prefix() + "/system/status"
}

// AllSensorEvents returns a pattern matching every sensor lifecycle event.
//
// Pattern: sensormonitor/sensors/+/+
func (t Topics) AllSensorEvents() string {
	return t.prefix() + "/sensors/+/+"
}

// AllTopics returns a pattern matching everything under the prefix.
//
// Pattern: sensormonitor/#
func (t Topics) AllTopics() string {
	return t.prefix() + "/#"
}
