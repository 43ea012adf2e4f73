package sensor

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/nerrad567/sensor-monitor-core/internal/infrastructure/mqtt"
)

// Action names a sensor lifecycle change.
type Action string

// Lifecycle actions.
const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event describes a committed sensor change. Sensor is the state after the
// change, or the removed state for ActionDeleted.
type Event struct {
	Action Action
	Sensor DTO
}

// Publisher receives sensor lifecycle events. Delivery is best effort: the
// registry logs a failed publish and carries on.
type Publisher interface {
	PublishEvent(ev Event) error
}

type noopPublisher struct{}

func (noopPublisher) PublishEvent(Event) error { return nil }

// MessagePublisher is the subset of the MQTT client used for events.
type MessagePublisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// MQTTPublisher publishes each event as the sensor's JSON to
// {prefix}/sensors/{id}/{action}.
type MQTTPublisher struct {
	client MessagePublisher
	topics mqtt.Topics
	qos    byte
}

// NewMQTTPublisher creates a publisher that sends events through client.
func NewMQTTPublisher(client MessagePublisher, topics mqtt.Topics, qos byte) *MQTTPublisher {
	return &MQTTPublisher{client: client, topics: topics, qos: qos}
}

// PublishEvent sends ev. Events are not retained.
func (p *MQTTPublisher) PublishEvent(ev Event) error {
	if ev.Sensor.ID == nil {
		return fmt.Errorf("publishing %s event: sensor has no id", ev.Action)
	}

	payload, err := json.Marshal(ev.Sensor)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", ev.Action, err)
	}

	topic := p.topics.SensorEvent(*ev.Sensor.ID, string(ev.Action))
	if err := p.client.Publish(topic, payload, p.qos, false); err != nil {
		return fmt.Errorf("publishing %s event: %w", ev.Action, err)
	}
	return nil
}
