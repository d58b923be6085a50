package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/storeline/checkout/internal/domain"
)

// Repository persists a flattened projection of the Customer: scalar fields
// plus the address columns inlined, no object graph.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, c *domain.Customer) error {
	street, number, zipCode, city := addressColumns(c.Address)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, street, number, zip_code, city, active, reward_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Name, street, number, zipCode, city, c.Active, c.RewardPoints)
	return err
}

func (r *Repository) Update(ctx context.Context, c *domain.Customer) error {
	street, number, zipCode, city := addressColumns(c.Address)
	result, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET name = $2, street = $3, number = $4, zip_code = $5, city = $6, active = $7, reward_points = $8
		WHERE id = $1
	`, c.ID, c.Name, street, number, zipCode, city, c.Active, c.RewardPoints)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("customer %s: %w", c.ID, domain.ErrCustomerNotFound)
	}
	return nil
}

func (r *Repository) Find(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, street, number, zip_code, city, active, reward_points
		FROM customers
		WHERE id = $1
	`, id)

	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", id, domain.ErrCustomerNotFound)
	}
	return c, err
}

func (r *Repository) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, street, number, zip_code, city, active, reward_points
		FROM customers
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var customers []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return customers, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(s scanner) (*domain.Customer, error) {
	var c domain.Customer
	var street, zipCode, city sql.NullString
	var number sql.NullInt64

	if err := s.Scan(&c.ID, &c.Name, &street, &number, &zipCode, &city, &c.Active, &c.RewardPoints); err != nil {
		return nil, err
	}

	if street.Valid {
		c.Address = &domain.Address{
			Street:  street.String,
			Number:  int(number.Int64),
			ZipCode: zipCode.String,
			City:    city.String,
		}
	}

	return &c, nil
}

func addressColumns(addr *domain.Address) (street sql.NullString, number sql.NullInt64, zipCode, city sql.NullString) {
	if addr == nil {
		return
	}
	street = sql.NullString{String: addr.Street, Valid: true}
	number = sql.NullInt64{Int64: int64(addr.Number), Valid: true}
	zipCode = sql.NullString{String: addr.ZipCode, Valid: true}
	city = sql.NullString{String: addr.City, Valid: true}
	return
}
