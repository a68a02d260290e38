package product

import (
	"context"
	"time"
)

type Repository interface {
	// AddProduct inserts p and assigns its ID.
	AddProduct(ctx context.Context, p *Product) error
	ListProducts(ctx context.Context, activeOnly bool) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	// ToggleActive flips the active flag and returns the updated product.
	ToggleActive(ctx context.Context, id int64) (*Product, error)
	// RecordPrice appends one observation. The price must be positive and the
	// product must exist.
	RecordPrice(ctx context.Context, productID int64, price float64, observedAt time.Time) error
	// GetHistory returns all observations for a product ordered by
	// observed_at ascending.
	GetHistory(ctx context.Context, productID int64) ([]PriceRecord, error)
	// LatestPrice returns the most recent observation, or nil when the
	// product has no history yet.
	LatestPrice(ctx context.Context, productID int64) (*PriceRecord, error)
}
