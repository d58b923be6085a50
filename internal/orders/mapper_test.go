package orders

import (
	"errors"
	"testing"

	"github.com/storeline/checkout/internal/domain"
)

func TestOrderFromRows(t *testing.T) {
	t.Run("rebuilds the aggregate", func(t *testing.T) {
		row := orderRow{ID: "123", CustomerID: "456", Total: 70}
		items := []itemRow{
			{ID: "1", ProductID: "p1", Name: "Product 1", Price: 10, Quantity: 2},
			{ID: "2", ProductID: "p1", Name: "Product 2", Price: 25, Quantity: 2},
		}

		order, err := orderFromRows(row, items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if order.ID != "123" || order.CustomerID != "456" {
			t.Errorf("unexpected identity: %s / %s", order.ID, order.CustomerID)
		}
		if got := order.Total(); got != 70 {
			t.Errorf("expected recomputed total 70, got %v", got)
		}
		got := order.Items()
		if len(got) != 2 {
			t.Fatalf("expected 2 items, got %d", len(got))
		}
		if got[0].ID != "1" || got[1].ID != "2" {
			t.Errorf("unexpected item order: %v", got)
		}
	})

	t.Run("rejects corrupt item rows", func(t *testing.T) {
		row := orderRow{ID: "123", CustomerID: "456"}
		items := []itemRow{{ID: "1", ProductID: "p1", Name: "Product 1", Price: 10, Quantity: 0}}

		_, err := orderFromRows(row, items)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("rejects orders without item rows", func(t *testing.T) {
		_, err := orderFromRows(orderRow{ID: "123", CustomerID: "456"}, nil)
		if err == nil {
			t.Fatal("expected error for empty item set")
		}
	})
}

func TestItemRowsFromOrder(t *testing.T) {
	item, err := domain.NewOrderItem("1", "Product 1", 10, "p1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, err := domain.NewOrder("123", "456", []domain.OrderItem{item})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := itemRowsFromOrder(order)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	want := itemRow{ID: "1", ProductID: "p1", Name: "Product 1", Price: 10, Quantity: 2}
	if rows[0] != want {
		t.Fatalf("expected %+v, got %+v", want, rows[0])
	}
}
