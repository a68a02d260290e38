package product

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ahmethakanbesel/price-tracker/internal/apperror"
	domain "github.com/ahmethakanbesel/price-tracker/internal/product"
)

// observedAtLayout is fixed-width so lexicographic ordering of the stored
// text matches chronological ordering. RFC3339Nano drops trailing zeros,
// which would sort "12:00:00.5Z" before "12:00:00Z".
const observedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AddProduct(ctx context.Context, p *domain.Product) error {
	const query = `INSERT INTO products (name, url, site, target_price, active)
		VALUES (?, ?, ?, ?, ?)`

	active := 0
	if p.Active {
		active = 1
	}

	res, err := r.db.ExecContext(ctx, query, p.Name, p.URL, string(p.Site), p.TargetPrice, active)
	if err != nil {
		return fmt.Errorf("add product: %w", err)
	}

	p.ID, _ = res.LastInsertId()
	p.CreatedAt = time.Now().UTC()
	return nil
}

func (r *Repository) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	query := `SELECT id, name, url, site, target_price, active, created_at FROM products`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	return products, rows.Err()
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `SELECT id, name, url, site, target_price, active, created_at
		FROM products WHERE id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperror.New(apperror.NotFound, "product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repository) ToggleActive(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `UPDATE products SET active = 1 - active WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("toggle active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperror.New(apperror.NotFound, "product not found")
	}

	return r.GetProduct(ctx, id)
}

func (r *Repository) RecordPrice(ctx context.Context, productID int64, price float64, observedAt time.Time) error {
	if price <= 0 {
		return apperror.New(apperror.BadRequest, "price must be positive")
	}

	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id = ?`, productID).Scan(&exists)
	if err == sql.ErrNoRows {
		return apperror.New(apperror.NotFound, "product not found")
	}
	if err != nil {
		return fmt.Errorf("record price: %w", err)
	}

	const query = `INSERT INTO price_history (product_id, price, observed_at) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, productID, price, observedAt.UTC().Format(observedAtLayout)); err != nil {
		return fmt.Errorf("record price: %w", err)
	}
	return nil
}

func (r *Repository) GetHistory(ctx context.Context, productID int64) ([]domain.PriceRecord, error) {
	const query = `SELECT id, product_id, price, observed_at
		FROM price_history
		WHERE product_id = ?
		ORDER BY observed_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var history []domain.PriceRecord
	for rows.Next() {
		var rec domain.PriceRecord
		var observedStr string
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.Price, &observedStr); err != nil {
			return nil, fmt.Errorf("scan price record: %w", err)
		}
		rec.ObservedAt, err = time.Parse(time.RFC3339Nano, observedStr)
		if err != nil {
			return nil, fmt.Errorf("parse observed_at %q: %w", observedStr, err)
		}
		history = append(history, rec)
	}

	return history, rows.Err()
}

func (r *Repository) LatestPrice(ctx context.Context, productID int64) (*domain.PriceRecord, error) {
	const query = `SELECT id, product_id, price, observed_at
		FROM price_history
		WHERE product_id = ?
		ORDER BY observed_at DESC, id DESC
		LIMIT 1`

	var rec domain.PriceRecord
	var observedStr string
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&rec.ID, &rec.ProductID, &rec.Price, &observedStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest price: %w", err)
	}
	rec.ObservedAt, err = time.Parse(time.RFC3339Nano, observedStr)
	if err != nil {
		return nil, fmt.Errorf("parse observed_at %q: %w", observedStr, err)
	}
	return &rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	var site, createdStr string
	var active int

	if err := row.Scan(&p.ID, &p.Name, &p.URL, &site, &p.TargetPrice, &active, &createdStr); err != nil {
		return nil, err
	}

	p.Site = domain.Site(site)
	p.Active = active == 1

	created, err := time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdStr, err)
	}
	p.CreatedAt = created
	return p, nil
}
