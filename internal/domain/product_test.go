package domain

import (
	"errors"
	"testing"
)

func TestNewProduct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p, err := NewProduct("123", "Product 1", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Price != 10 {
			t.Fatalf("expected price 10, got %v", p.Price)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := NewProduct("", "Product 1", 10); err == nil {
			t.Error("expected error for empty id")
		}
		if _, err := NewProduct("123", "", 10); err == nil {
			t.Error("expected error for empty name")
		}
		var verr *ValidationError
		if _, err := NewProduct("123", "Product 1", -10); !errors.As(err, &verr) {
			t.Errorf("expected ValidationError for negative price, got %v", err)
		}
	})
}

func TestProduct_ChangePrice(t *testing.T) {
	p, err := NewProduct("123", "Product 1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.ChangePrice(25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Price != 25 {
		t.Fatalf("expected price 25, got %v", p.Price)
	}

	if err := p.ChangePrice(-1); err == nil {
		t.Error("expected error for negative price")
	}
	if p.Price != 25 {
		t.Fatalf("expected price unchanged after failed mutation, got %v", p.Price)
	}
}
