package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateOrder    = errors.New("duplicate order id")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ProductFilter struct {
	Category string
	Offset   int
	Limit    int
}

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindByProductID(ctx context.Context, productID string) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	DeleteByProductID(ctx context.Context, productID string) error
}

type OrderRepo interface {
	// Create persists the order and decrements each line's per-size stock in
	// one transaction; a line whose floor-guarded decrement matches no row
	// rolls the whole order back with ErrInsufficientStock.
	Create(ctx context.Context, o *Order) error
	FindByOrderID(ctx context.Context, orderID string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error)
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]Order, error)
}
