package product

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ahmethakanbesel/price-tracker/internal/apperror"
)

type mockRepo struct {
	products map[int64]*Product
	history  map[int64][]PriceRecord
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		products: make(map[int64]*Product),
		history:  make(map[int64][]PriceRecord),
		nextID:   1,
	}
}

func (m *mockRepo) AddProduct(_ context.Context, p *Product) error {
	p.ID = m.nextID
	m.nextID++
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockRepo) ListProducts(_ context.Context, activeOnly bool) ([]Product, error) {
	var out []Product
	for _, p := range m.products {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockRepo) GetProduct(_ context.Context, id int64) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, apperror.New(apperror.NotFound, "product not found")
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) ToggleActive(_ context.Context, id int64) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, apperror.New(apperror.NotFound, "product not found")
	}
	p.Active = !p.Active
	cp := *p
	return &cp, nil
}

func (m *mockRepo) RecordPrice(_ context.Context, productID int64, price float64, observedAt time.Time) error {
	if _, ok := m.products[productID]; !ok {
		return apperror.New(apperror.NotFound, "product not found")
	}
	m.history[productID] = append(m.history[productID], PriceRecord{
		ProductID: productID, Price: price, ObservedAt: observedAt,
	})
	return nil
}

func (m *mockRepo) GetHistory(_ context.Context, productID int64) ([]PriceRecord, error) {
	return append([]PriceRecord(nil), m.history[productID]...), nil
}

func (m *mockRepo) LatestPrice(_ context.Context, productID int64) (*PriceRecord, error) {
	h := m.history[productID]
	if len(h) == 0 {
		return nil, nil
	}
	cp := h[len(h)-1]
	return &cp, nil
}

type mockFetcher struct {
	html string
	err  error
}

func (f *mockFetcher) Fetch(_ context.Context, _ string) (string, error) {
	return f.html, f.err
}

type mockParser struct {
	name  string
	price float64
	err   error
}

func (p *mockParser) Parse(_ string, _ Site) (string, float64, error) {
	return p.name, p.price, p.err
}

func TestAddProduct(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockFetcher{}, &mockParser{})

	p, err := svc.AddProduct(context.Background(), AddProductRequest{
		Name:        "Demo Camera",
		URL:         "https://www.amazon.in/dp/B0C7H1MCYH",
		TargetPrice: 100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected assigned ID")
	}
	if p.Site != SiteAmazon {
		t.Errorf("site: got %s, want %s", p.Site, SiteAmazon)
	}
	if !p.Active {
		t.Error("new products must start active")
	}
}

func TestAddProduct_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  AddProductRequest
	}{
		{"malformed url", AddProductRequest{Name: "x", URL: "not-a-url", TargetPrice: 10}},
		{"unsupported scheme", AddProductRequest{Name: "x", URL: "ftp://example.com/f", TargetPrice: 10}},
		{"zero target", AddProductRequest{Name: "x", URL: "https://example.com/p", TargetPrice: 0}},
		{"negative target", AddProductRequest{Name: "x", URL: "https://example.com/p", TargetPrice: -1}},
		{"missing name", AddProductRequest{URL: "https://example.com/p", TargetPrice: 10}},
	}

	repo := newMockRepo()
	svc := NewService(repo, &mockFetcher{}, &mockParser{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddProduct(context.Background(), tt.req)
			var ae *apperror.AppError
			if !errors.As(err, &ae) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ae.Code() != apperror.BadRequest {
				t.Errorf("code: got %s, want %s", ae.Code(), apperror.BadRequest)
			}
		})
	}

	if len(repo.products) != 0 {
		t.Errorf("no products should be created, got %d", len(repo.products))
	}
}

func TestListProducts_IncludesLatestPrice(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockFetcher{html: "<html/>"}, &mockParser{price: 42})

	p, err := svc.AddProduct(context.Background(), AddProductRequest{
		Name: "Demo", URL: "https://example.com/p", TargetPrice: 100,
	})
	if err != nil {
		t.Fatal(err)
	}

	// No observations yet: listing carries a nil latest price.
	statuses, err := svc.ListProducts(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("expected 1 product, got %d", len(statuses))
	}
	if statuses[0].LatestPrice != nil {
		t.Errorf("expected nil latest price, got %+v", statuses[0].LatestPrice)
	}

	if _, err := svc.Check(context.Background(), *p); err != nil {
		t.Fatal(err)
	}

	statuses, err = svc.ListProducts(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if statuses[0].LatestPrice == nil || statuses[0].LatestPrice.Price != 42 {
		t.Errorf("expected latest price 42, got %+v", statuses[0].LatestPrice)
	}
}

func TestCheck_RecordsPrice(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockFetcher{html: "<html/>"}, &mockParser{name: "Demo", price: 59.99})

	p, err := svc.AddProduct(context.Background(), AddProductRequest{
		Name: "Demo", URL: "https://example.com/p", TargetPrice: 100,
	})
	if err != nil {
		t.Fatal(err)
	}

	rec, err := svc.Check(context.Background(), *p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Price != 59.99 {
		t.Errorf("price: got %v, want 59.99", rec.Price)
	}
	if len(repo.history[p.ID]) != 1 {
		t.Fatalf("expected 1 record, got %d", len(repo.history[p.ID]))
	}
}

func TestCheck_ParseFailureWritesNothing(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo,
		&mockFetcher{html: "<html/>"},
		&mockParser{err: fmt.Errorf("no price found")},
	)

	p, err := svc.AddProduct(context.Background(), AddProductRequest{
		Name: "Demo", URL: "https://example.com/p", TargetPrice: 100,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Check(context.Background(), *p); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.history[p.ID]) != 0 {
		t.Errorf("parse failure must not write a record, got %d", len(repo.history[p.ID]))
	}
}

func TestCheck_FetchFailureWritesNothing(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo,
		&mockFetcher{err: fmt.Errorf("connection refused")},
		&mockParser{price: 10},
	)

	p, err := svc.AddProduct(context.Background(), AddProductRequest{
		Name: "Demo", URL: "https://example.com/p", TargetPrice: 100,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Check(context.Background(), *p); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.history[p.ID]) != 0 {
		t.Errorf("fetch failure must not write a record, got %d", len(repo.history[p.ID]))
	}
}

func TestScrape(t *testing.T) {
	svc := NewService(newMockRepo(),
		&mockFetcher{html: "<html/>"},
		&mockParser{name: "Demo Phone", price: 12499},
	)

	result, err := svc.Scrape(context.Background(), ScrapeRequest{URL: "https://www.flipkart.com/p/1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Name != "Demo Phone" || result.Price != 12499 {
		t.Errorf("got %+v", result)
	}
	if result.Site != SiteFlipkart {
		t.Errorf("site: got %s, want %s", result.Site, SiteFlipkart)
	}
}

func TestScrape_BadURL(t *testing.T) {
	svc := NewService(newMockRepo(), &mockFetcher{}, &mockParser{})

	_, err := svc.Scrape(context.Background(), ScrapeRequest{URL: "not-a-url"})
	var ae *apperror.AppError
	if !errors.As(err, &ae) || ae.Code() != apperror.BadRequest {
		t.Fatalf("expected bad request error, got %v", err)
	}
}
