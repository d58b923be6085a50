package domain

import "time"

// Customer is an aggregate root. Its id is assigned by the caller; the
// address is optional until assigned through ChangeAddress.
type Customer struct {
	ID           string
	Name         string
	Address      *Address
	Active       bool
	RewardPoints int
}

func NewCustomer(id, name string) (*Customer, error) {
	if id == "" {
		return nil, invalid("customer", "id", "must not be empty")
	}
	if name == "" {
		return nil, invalid("customer", "name", "must not be empty")
	}
	return &Customer{ID: id, Name: name}, nil
}

func (c *Customer) ChangeName(name string) error {
	if name == "" {
		return invalid("customer", "name", "must not be empty")
	}
	c.Name = name
	return nil
}

// ChangeAddress assigns a new address and returns the event describing the
// change. Dispatching the event is the caller's responsibility; the entity
// never talks to a dispatcher itself.
func (c *Customer) ChangeAddress(addr Address) CustomerAddressChangedEvent {
	previous := c.Address
	copied := addr
	c.Address = &copied
	return CustomerAddressChangedEvent{
		CustomerID: c.ID,
		Name:       c.Name,
		Previous:   previous,
		Current:    addr,
		Timestamp:  time.Now().UTC(),
	}
}

// Activate requires an address so shipments have somewhere to go.
func (c *Customer) Activate() error {
	if c.Address == nil {
		return invalid("customer", "address", "required to activate")
	}
	c.Active = true
	return nil
}

func (c *Customer) Deactivate() {
	c.Active = false
}

func (c *Customer) AddRewardPoints(points int) error {
	if points < 0 {
		return invalid("customer", "reward_points", "must not be negative")
	}
	c.RewardPoints += points
	return nil
}
