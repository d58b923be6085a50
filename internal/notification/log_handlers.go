// Package notification holds the reactions wired to domain events: log
// notifications for operators and a Kafka publisher for other services.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/storeline/checkout/internal/domain"
	"github.com/storeline/checkout/internal/event"
)

// CustomerCreatedLog1 and CustomerCreatedLog2 are the pair of log reactions
// to a customer being created. Two separate handlers, registered in order,
// so their output order is deterministic.
type CustomerCreatedLog1 struct {
	logger *slog.Logger
}

func NewCustomerCreatedLog1(logger *slog.Logger) *CustomerCreatedLog1 {
	return &CustomerCreatedLog1{logger: logger}
}

func (h *CustomerCreatedLog1) Handle(_ context.Context, e event.Event) error {
	ev, ok := e.(domain.CustomerCreatedEvent)
	if !ok {
		return fmt.Errorf("customer created log 1: unexpected event %q", e.EventName())
	}
	h.logger.Info("customer created, first notification", "customer_id", ev.CustomerID, "name", ev.Name)
	return nil
}

type CustomerCreatedLog2 struct {
	logger *slog.Logger
}

func NewCustomerCreatedLog2(logger *slog.Logger) *CustomerCreatedLog2 {
	return &CustomerCreatedLog2{logger: logger}
}

func (h *CustomerCreatedLog2) Handle(_ context.Context, e event.Event) error {
	ev, ok := e.(domain.CustomerCreatedEvent)
	if !ok {
		return fmt.Errorf("customer created log 2: unexpected event %q", e.EventName())
	}
	h.logger.Info("customer created, second notification", "customer_id", ev.CustomerID, "name", ev.Name)
	return nil
}

// AddressChangedLog logs the customer's new address whenever it changes.
type AddressChangedLog struct {
	logger *slog.Logger
}

func NewAddressChangedLog(logger *slog.Logger) *AddressChangedLog {
	return &AddressChangedLog{logger: logger}
}

func (h *AddressChangedLog) Handle(_ context.Context, e event.Event) error {
	ev, ok := e.(domain.CustomerAddressChangedEvent)
	if !ok {
		return fmt.Errorf("address changed log: unexpected event %q", e.EventName())
	}
	h.logger.Info("customer address changed",
		"customer_id", ev.CustomerID,
		"name", ev.Name,
		"address", ev.Current.String(),
	)
	return nil
}
