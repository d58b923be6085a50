package domain

import (
	"time"

	"github.com/storeline/checkout/internal/event"
)

// The closed set of event names this domain emits.
const (
	CustomerCreated        event.Name = "customer.created"
	CustomerAddressChanged event.Name = "customer.address_changed"
	OrderPlaced            event.Name = "order.placed"
)

// CustomerCreatedEvent carries a snapshot of the customer at creation time.
type CustomerCreatedEvent struct {
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewCustomerCreatedEvent(c *Customer) CustomerCreatedEvent {
	return CustomerCreatedEvent{
		CustomerID: c.ID,
		Name:       c.Name,
		Timestamp:  time.Now().UTC(),
	}
}

func (CustomerCreatedEvent) EventName() event.Name   { return CustomerCreated }
func (e CustomerCreatedEvent) OccurredAt() time.Time { return e.Timestamp }

// CustomerAddressChangedEvent records both sides of an address change.
// Previous is nil when the address is assigned for the first time.
type CustomerAddressChangedEvent struct {
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Previous   *Address  `json:"previous,omitempty"`
	Current    Address   `json:"current"`
	Timestamp  time.Time `json:"timestamp"`
}

func (CustomerAddressChangedEvent) EventName() event.Name   { return CustomerAddressChanged }
func (e CustomerAddressChangedEvent) OccurredAt() time.Time { return e.Timestamp }

// OrderPlacedEvent carries a snapshot of a freshly placed order.
type OrderPlacedEvent struct {
	OrderID    string      `json:"order_id"`
	CustomerID string      `json:"customer_id"`
	Items      []OrderItem `json:"items"`
	Total      float64     `json:"total"`
	Timestamp  time.Time   `json:"timestamp"`
}

func NewOrderPlacedEvent(o *Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Items:      o.Items(),
		Total:      o.Total(),
		Timestamp:  time.Now().UTC(),
	}
}

func (OrderPlacedEvent) EventName() event.Name   { return OrderPlaced }
func (e OrderPlacedEvent) OccurredAt() time.Time { return e.Timestamp }
