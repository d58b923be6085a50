package notification

import (
	"context"

	"github.com/storeline/checkout/internal/domain"
	"github.com/storeline/checkout/internal/event"
	"github.com/storeline/checkout/internal/messaging"
)

// Publisher forwards domain events to Kafka so services outside this
// process can react to them. It keys messages by the aggregate id so all
// events for one aggregate land on the same partition.
type Publisher struct {
	producer *messaging.Producer
}

func NewPublisher(producer *messaging.Producer) *Publisher {
	return &Publisher{producer: producer}
}

func (p *Publisher) Handle(ctx context.Context, e event.Event) error {
	key := string(e.EventName())
	switch ev := e.(type) {
	case domain.CustomerCreatedEvent:
		key = ev.CustomerID
	case domain.CustomerAddressChangedEvent:
		key = ev.CustomerID
	case domain.OrderPlacedEvent:
		key = ev.OrderID
	}
	return p.producer.Publish(ctx, key, messaging.Envelope{
		Name:    string(e.EventName()),
		Payload: e,
	})
}
