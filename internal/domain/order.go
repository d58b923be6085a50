package domain

// OrderItem is owned exclusively by its parent Order. Name and price are
// snapshots taken at order time, not live references to the product.
type OrderItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
}

func NewOrderItem(id, name string, price float64, productID string, quantity int) (OrderItem, error) {
	if id == "" {
		return OrderItem{}, invalid("order_item", "id", "must not be empty")
	}
	if name == "" {
		return OrderItem{}, invalid("order_item", "name", "must not be empty")
	}
	if price < 0 {
		return OrderItem{}, invalid("order_item", "price", "must not be negative")
	}
	if productID == "" {
		return OrderItem{}, invalid("order_item", "product_id", "must not be empty")
	}
	if quantity <= 0 {
		return OrderItem{}, invalid("order_item", "quantity", "must be positive")
	}
	return OrderItem{ID: id, Name: name, Price: price, ProductID: productID, Quantity: quantity}, nil
}

func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Order is the aggregate root for a purchase. The item list is kept private
// so every mutation goes through AddItem and the total can never go stale.
type Order struct {
	ID         string
	CustomerID string
	items      []OrderItem
}

// NewOrder rejects orders without items; an empty order is meaningless to
// the rest of the system.
func NewOrder(id, customerID string, items []OrderItem) (*Order, error) {
	if id == "" {
		return nil, invalid("order", "id", "must not be empty")
	}
	if customerID == "" {
		return nil, invalid("order", "customer_id", "must not be empty")
	}
	if len(items) == 0 {
		return nil, invalid("order", "items", "must contain at least one item")
	}
	return &Order{
		ID:         id,
		CustomerID: customerID,
		items:      append([]OrderItem(nil), items...),
	}, nil
}

func (o *Order) AddItem(item OrderItem) {
	o.items = append(o.items, item)
}

// Items returns a copy; callers cannot reach into the aggregate's state.
func (o *Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}

// Total is always derived from the current items, never cached.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.items {
		total += item.Subtotal()
	}
	return total
}
