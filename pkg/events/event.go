package events

import (
	"encoding/json"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/hostvalue"
	"github.com/aretw0/navbridge/pkg/value"
)

// Event is a named outbound notification with a tagged payload.
// Signal-only events carry a null payload.
type Event struct {
	Type    domain.EventType
	Payload value.Value
}

// HostPayload converts the payload into plain Go containers.
func (e Event) HostPayload() any {
	return hostvalue.ToHost(e.Payload)
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    domain.EventType `json:"type"`
		Payload value.Value      `json:"payload"`
	}{e.Type, e.Payload})
}

// Consumer receives events from a Tap.
type Consumer interface {
	OnEvent(Event)
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc func(Event)

func (f ConsumerFunc) OnEvent(e Event) { f(e) }

// Tee forwards every event to each consumer in order. Nil entries are
// skipped. The result is still a single consumer from the tap's point of
// view.
func Tee(consumers ...Consumer) Consumer {
	return ConsumerFunc(func(e Event) {
		for _, c := range consumers {
			if c != nil {
				c.OnEvent(e)
			}
		}
	})
}
