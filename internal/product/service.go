package product

import (
	"context"
	"fmt"
	"time"
)

// Fetcher retrieves the raw HTML of a product page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Parser extracts a product name and price from raw HTML using the rules of
// the given site. An empty name is allowed; a missing price is an error.
type Parser interface {
	Parse(html string, site Site) (name string, price float64, err error)
}

type Service struct {
	repo    Repository
	fetcher Fetcher
	parser  Parser
}

func NewService(repo Repository, fetcher Fetcher, parser Parser) *Service {
	return &Service{
		repo:    repo,
		fetcher: fetcher,
		parser:  parser,
	}
}

func (s *Service) AddProduct(ctx context.Context, req AddProductRequest) (*Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &Product{
		Name:        req.Name,
		URL:         req.URL,
		Site:        SiteFromURL(req.URL),
		TargetPrice: req.TargetPrice,
		Active:      true,
	}
	if err := s.repo.AddProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("add product: %w", err)
	}
	return p, nil
}

// ListProducts returns products together with their most recent observation,
// so a listing shows where each price stands without a per-product query.
func (s *Service) ListProducts(ctx context.Context, activeOnly bool) ([]ProductStatus, error) {
	products, err := s.repo.ListProducts(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	statuses := make([]ProductStatus, 0, len(products))
	for _, p := range products {
		latest, err := s.repo.LatestPrice(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("latest price for product %d: %w", p.ID, err)
		}
		statuses = append(statuses, ProductStatus{Product: p, LatestPrice: latest})
	}
	return statuses, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) ToggleActive(ctx context.Context, id int64) (*Product, error) {
	return s.repo.ToggleActive(ctx, id)
}

func (s *Service) GetHistory(ctx context.Context, productID int64) ([]PriceRecord, error) {
	return s.repo.GetHistory(ctx, productID)
}

// Scrape performs a one-shot fetch+parse without touching stored state.
func (s *Service) Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	site := req.Site
	if site == "" {
		site = SiteFromURL(req.URL)
	}

	html, err := s.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", req.URL, err)
	}
	name, price, err := s.parser.Parse(html, site)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", req.URL, err)
	}

	return &ScrapeResult{Name: name, Price: price, URL: req.URL, Site: site}, nil
}

// Check runs one fetch→parse→record pass for a tracked product and returns
// the appended observation. A fetch or parse failure leaves the history
// untouched: no record is written without a successfully extracted price.
func (s *Service) Check(ctx context.Context, p Product) (*PriceRecord, error) {
	html, err := s.fetcher.Fetch(ctx, p.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", p.URL, err)
	}

	_, price, err := s.parser.Parse(html, p.Site)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.URL, err)
	}

	rec := &PriceRecord{
		ProductID:  p.ID,
		Price:      price,
		ObservedAt: time.Now().UTC(),
	}
	if err := s.repo.RecordPrice(ctx, rec.ProductID, rec.Price, rec.ObservedAt); err != nil {
		return nil, fmt.Errorf("record price: %w", err)
	}
	return rec, nil
}
