//go:build integration

package test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	segmentio "github.com/segmentio/kafka-go"

	"github.com/storeline/checkout/internal/customers"
	"github.com/storeline/checkout/internal/domain"
	"github.com/storeline/checkout/internal/messaging"
	"github.com/storeline/checkout/internal/notification"
	"github.com/storeline/checkout/internal/orders"
	"github.com/storeline/checkout/internal/products"
)

func mustOrderItem(t *testing.T, id, name string, price float64, productID string, quantity int) domain.OrderItem {
	t.Helper()
	item, err := domain.NewOrderItem(id, name, price, productID, quantity)
	if err != nil {
		t.Fatalf("failed to build order item: %v", err)
	}
	return item
}

func TestOrderRepository(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := SetupPostgres(ctx, t)
	repo := orders.NewRepository(db)

	t.Run("create then find round-trips the aggregate", func(t *testing.T) {
		item := mustOrderItem(t, "1", "Product 1", 10, "123", 2)
		order, err := domain.NewOrder("123", "customer-123", []domain.OrderItem{item})
		if err != nil {
			t.Fatalf("failed to build order: %v", err)
		}

		if err := repo.Create(ctx, order); err != nil {
			t.Fatalf("failed to create order: %v", err)
		}

		found, err := repo.Find(ctx, "123")
		if err != nil {
			t.Fatalf("failed to find order: %v", err)
		}
		if found.ID != "123" || found.CustomerID != "customer-123" {
			t.Fatalf("unexpected identity: %s / %s", found.ID, found.CustomerID)
		}
		items := found.Items()
		if len(items) != 1 || items[0] != item {
			t.Fatalf("unexpected items: %+v", items)
		}
		if got := found.Total(); got != 20 {
			t.Fatalf("expected total 20, got %v", got)
		}
	})

	t.Run("update adds new item rows and rewrites the total", func(t *testing.T) {
		order, err := repo.Find(ctx, "123")
		if err != nil {
			t.Fatalf("failed to find order: %v", err)
		}

		order.AddItem(mustOrderItem(t, "2", "Product 2", 25, "123", 2))
		if err := repo.Update(ctx, order); err != nil {
			t.Fatalf("failed to update order: %v", err)
		}

		found, err := repo.Find(ctx, "123")
		if err != nil {
			t.Fatalf("failed to find order: %v", err)
		}
		if got := len(found.Items()); got != 2 {
			t.Fatalf("expected 2 items, got %d", got)
		}
		if got := found.Total(); got != 70 {
			t.Fatalf("expected total 70, got %v", got)
		}

		var storedTotal float64
		if err := db.QueryRowContext(ctx, `SELECT total FROM orders WHERE id = $1`, "123").Scan(&storedTotal); err != nil {
			t.Fatalf("failed to read stored total: %v", err)
		}
		if storedTotal != 70 {
			t.Fatalf("expected stored total 70, got %v", storedTotal)
		}
	})

	t.Run("update does not refresh existing item rows", func(t *testing.T) {
		order, err := domain.NewOrder("123", "customer-123", []domain.OrderItem{
			mustOrderItem(t, "1", "Renamed", 99, "123", 5),
			mustOrderItem(t, "2", "Product 2", 25, "123", 2),
		})
		if err != nil {
			t.Fatalf("failed to build order: %v", err)
		}

		if err := repo.Update(ctx, order); err != nil {
			t.Fatalf("failed to update order: %v", err)
		}

		var name string
		if err := db.QueryRowContext(ctx, `SELECT name FROM order_items WHERE id = $1`, "1").Scan(&name); err != nil {
			t.Fatalf("failed to read item row: %v", err)
		}
		if name != "Product 1" {
			t.Fatalf("expected existing row to keep its persisted name, got %q", name)
		}
	})

	t.Run("update hard-deletes items dropped from the aggregate", func(t *testing.T) {
		order, err := domain.NewOrder("123", "customer-123", []domain.OrderItem{
			mustOrderItem(t, "2", "Product 2", 25, "123", 2),
		})
		if err != nil {
			t.Fatalf("failed to build order: %v", err)
		}

		if err := repo.Update(ctx, order); err != nil {
			t.Fatalf("failed to update order: %v", err)
		}

		var count int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM order_items WHERE id = $1`, "1").Scan(&count); err != nil {
			t.Fatalf("failed to count item rows: %v", err)
		}
		if count != 0 {
			t.Fatal("expected dropped item row to be deleted")
		}

		found, err := repo.Find(ctx, "123")
		if err != nil {
			t.Fatalf("failed to find order: %v", err)
		}
		if got := found.Total(); got != 50 {
			t.Fatalf("expected total 50, got %v", got)
		}
	})

	t.Run("find on missing id fails with ErrOrderNotFound", func(t *testing.T) {
		_, err := repo.Find(ctx, "does-not-exist")
		if !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("update on missing id fails with ErrOrderNotFound", func(t *testing.T) {
		order, err := domain.NewOrder("ghost", "customer-123", []domain.OrderItem{
			mustOrderItem(t, "ghost-1", "Product 1", 10, "123", 1),
		})
		if err != nil {
			t.Fatalf("failed to build order: %v", err)
		}
		if err := repo.Update(ctx, order); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("findAll reconstructs every order with items", func(t *testing.T) {
		item := mustOrderItem(t, "3", "Product 3", 5, "456", 1)
		other, err := domain.NewOrder("456", "customer-456", []domain.OrderItem{item})
		if err != nil {
			t.Fatalf("failed to build order: %v", err)
		}
		if err := repo.Create(ctx, other); err != nil {
			t.Fatalf("failed to create order: %v", err)
		}

		all, err := repo.FindAll(ctx)
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 orders, got %d", len(all))
		}
		for _, order := range all {
			if len(order.Items()) == 0 {
				t.Fatalf("expected items loaded for order %s", order.ID)
			}
		}
	})

	t.Run("findAll honors the page limit", func(t *testing.T) {
		limited := orders.NewRepository(db, orders.WithPageLimit(1))
		all, err := limited.FindAll(ctx)
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("expected 1 order, got %d", len(all))
		}
	})
}

func TestCustomerRepository(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := SetupPostgres(ctx, t)
	repo := customers.NewRepository(db)

	customer, err := domain.NewCustomer("123", "Customer 1")
	if err != nil {
		t.Fatalf("failed to build customer: %v", err)
	}
	if err := repo.Create(ctx, customer); err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	found, err := repo.Find(ctx, "123")
	if err != nil {
		t.Fatalf("failed to find customer: %v", err)
	}
	if found.Address != nil {
		t.Fatalf("expected no address, got %v", found.Address)
	}

	addr, err := domain.NewAddress("Street 1", 1, "Zipcode 1", "City 1")
	if err != nil {
		t.Fatalf("failed to build address: %v", err)
	}
	found.ChangeAddress(addr)
	if err := found.Activate(); err != nil {
		t.Fatalf("failed to activate customer: %v", err)
	}
	if err := found.AddRewardPoints(15); err != nil {
		t.Fatalf("failed to add reward points: %v", err)
	}
	if err := repo.Update(ctx, found); err != nil {
		t.Fatalf("failed to update customer: %v", err)
	}

	reloaded, err := repo.Find(ctx, "123")
	if err != nil {
		t.Fatalf("failed to reload customer: %v", err)
	}
	if reloaded.Address == nil || *reloaded.Address != addr {
		t.Fatalf("expected address %v, got %v", addr, reloaded.Address)
	}
	if !reloaded.Active || reloaded.RewardPoints != 15 {
		t.Fatalf("unexpected state: active=%v points=%d", reloaded.Active, reloaded.RewardPoints)
	}

	if _, err := repo.Find(ctx, "missing"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestProductRepository(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := SetupPostgres(ctx, t)
	repo := products.NewRepository(db)

	product, err := domain.NewProduct("123", "Product 1", 10)
	if err != nil {
		t.Fatalf("failed to build product: %v", err)
	}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	if err := product.ChangePrice(25); err != nil {
		t.Fatalf("failed to change price: %v", err)
	}
	if err := repo.Update(ctx, product); err != nil {
		t.Fatalf("failed to update product: %v", err)
	}

	found, err := repo.Find(ctx, "123")
	if err != nil {
		t.Fatalf("failed to find product: %v", err)
	}
	if found.Price != 25 {
		t.Fatalf("expected price 25, got %v", found.Price)
	}

	if _, err := repo.Find(ctx, "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestEventPublishing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	brokers := SetupKafka(ctx, t)

	producer := messaging.NewProducer(brokers, "checkout.events")
	defer func() { _ = producer.Close() }()

	publisher := notification.NewPublisher(producer)

	customer, err := domain.NewCustomer("123", "Customer 1")
	if err != nil {
		t.Fatalf("failed to build customer: %v", err)
	}
	if err := publisher.Handle(ctx, domain.NewCustomerCreatedEvent(customer)); err != nil {
		t.Fatalf("failed to publish event: %v", err)
	}

	consumer := messaging.NewConsumer(brokers, "checkout.events", "test-consumer",
		messaging.WithStartOffset(segmentio.FirstOffset),
	)
	defer func() { _ = consumer.Close() }()

	consumeCtx, stop := context.WithCancel(ctx)
	defer stop()

	received := make(chan messaging.Envelope, 1)
	go func() {
		_ = consumer.Consume(consumeCtx, func(_ context.Context, payload []byte) error {
			var envelope messaging.Envelope
			if err := json.Unmarshal(payload, &envelope); err != nil {
				return err
			}
			received <- envelope
			stop()
			return nil
		})
	}()

	select {
	case envelope := <-received:
		if envelope.Name != string(domain.CustomerCreated) {
			t.Fatalf("expected event name %q, got %q", domain.CustomerCreated, envelope.Name)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}
