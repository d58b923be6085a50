package orders

import (
	"fmt"

	"github.com/storeline/checkout/internal/domain"
)

// Row projections of the aggregate. Mapping in both directions is pure so
// it can be tested without a database.

type orderRow struct {
	ID         string
	CustomerID string
	Total      float64
}

type itemRow struct {
	ID        string
	ProductID string
	Name      string
	Price     float64
	Quantity  int
}

func itemRowsFromOrder(order *domain.Order) []itemRow {
	items := order.Items()
	rows := make([]itemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, itemRow{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return rows
}

// orderFromRows rebuilds the aggregate from its persisted projection,
// running every row back through the domain constructors so stored data
// that violates an invariant surfaces as an error instead of a corrupt
// aggregate.
func orderFromRows(row orderRow, items []itemRow) (*domain.Order, error) {
	domainItems := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		item, err := domain.NewOrderItem(it.ID, it.Name, it.Price, it.ProductID, it.Quantity)
		if err != nil {
			return nil, fmt.Errorf("order %s: item row %s: %w", row.ID, it.ID, err)
		}
		domainItems = append(domainItems, item)
	}

	order, err := domain.NewOrder(row.ID, row.CustomerID, domainItems)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", row.ID, err)
	}
	return order, nil
}
