package customer

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrDuplicateMobile = errors.New("mobile number already registered")
)

type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	// FindAll lists customers ordered by name. With pendingOnly set it
	// returns only customers whose balance is above zero, ordered by
	// pending descending.
	FindAll(ctx context.Context, pendingOnly bool) ([]*Customer, error)
}
