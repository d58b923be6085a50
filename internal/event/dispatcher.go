package event

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Dispatcher fans events out to registered handlers, synchronously and in
// registration order, on the calling goroutine. Construct one per scope and
// pass it explicitly to whoever registers or notifies; there is no shared
// global instance.
//
// The dispatcher is not safe for concurrent mutation. Registration is
// expected to happen during wiring, before notifications start.
type Dispatcher struct {
	handlers map[Name][]Handler
	logger   *slog.Logger

	dispatched metric.Int64Counter
	failures   metric.Int64Counter
}

type DispatcherOption func(*Dispatcher)

func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[Name][]Handler),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	meter := otel.Meter("checkout/event")
	d.dispatched, _ = meter.Int64Counter("checkout_events_dispatched_total",
		metric.WithDescription("Events delivered to at least one handler"))
	d.failures, _ = meter.Int64Counter("checkout_event_handler_failures_total",
		metric.WithDescription("Handler invocations that returned an error"))

	return d
}

// Register appends h to the list for name. Registering the same handler
// twice is allowed and yields two invocations per notification.
func (d *Dispatcher) Register(name Name, h Handler) {
	d.handlers[name] = append(d.handlers[name], h)
}

// Unregister removes the first registration of h under name. Unknown names
// and handlers that were never registered are ignored.
func (d *Dispatcher) Unregister(name Name, h Handler) {
	registered := d.handlers[name]
	for i, candidate := range registered {
		if candidate == h {
			d.handlers[name] = append(registered[:i:i], registered[i+1:]...)
			return
		}
	}
}

// UnregisterAll returns the dispatcher to its initial empty state.
func (d *Dispatcher) UnregisterAll() {
	d.handlers = make(map[Name][]Handler)
}

// Registered reports how many handlers are currently registered under name.
func (d *Dispatcher) Registered(name Name) int {
	return len(d.handlers[name])
}

// Notify delivers e to every handler registered under its name, in
// registration order. A name with no handlers is a silent no-op. A failing
// handler does not stop delivery to the remaining ones; all handler errors
// are logged, counted, and returned joined.
func (d *Dispatcher) Notify(ctx context.Context, e Event) error {
	registered := d.handlers[e.EventName()]
	if len(registered) == 0 {
		return nil
	}

	attrs := metric.WithAttributes(attribute.String("event.name", string(e.EventName())))
	d.dispatched.Add(ctx, 1, attrs)

	var errs []error
	for _, h := range registered {
		if err := h.Handle(ctx, e); err != nil {
			d.failures.Add(ctx, 1, attrs)
			d.logger.Error("event handler failed", "event", string(e.EventName()), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
