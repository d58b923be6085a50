package domain

type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func NewProduct(id, name string, price float64) (*Product, error) {
	if id == "" {
		return nil, invalid("product", "id", "must not be empty")
	}
	if name == "" {
		return nil, invalid("product", "name", "must not be empty")
	}
	if price < 0 {
		return nil, invalid("product", "price", "must not be negative")
	}
	return &Product{ID: id, Name: name, Price: price}, nil
}

func (p *Product) ChangePrice(price float64) error {
	if price < 0 {
		return invalid("product", "price", "must not be negative")
	}
	p.Price = price
	return nil
}
