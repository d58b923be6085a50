package domain

import "fmt"

// Address is a value object: validated on construction, compared by value,
// never mutated afterwards.
type Address struct {
	Street  string `json:"street"`
	Number  int    `json:"number"`
	ZipCode string `json:"zip_code"`
	City    string `json:"city"`
}

func NewAddress(street string, number int, zipCode, city string) (Address, error) {
	if street == "" {
		return Address{}, invalid("address", "street", "must not be empty")
	}
	if number <= 0 {
		return Address{}, invalid("address", "number", "must be positive")
	}
	if zipCode == "" {
		return Address{}, invalid("address", "zip_code", "must not be empty")
	}
	if city == "" {
		return Address{}, invalid("address", "city", "must not be empty")
	}
	return Address{Street: street, Number: number, ZipCode: zipCode, City: city}, nil
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %d, %s %s", a.Street, a.Number, a.ZipCode, a.City)
}
