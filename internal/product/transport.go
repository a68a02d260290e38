package product

import (
	"net/url"

	"github.com/ahmethakanbesel/price-tracker/internal/apperror"
)

type AddProductRequest struct {
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	TargetPrice float64 `json:"targetPrice"`
}

func (r AddProductRequest) Validate() *apperror.AppError {
	if r.Name == "" {
		return apperror.New(apperror.BadRequest, "name is required")
	}
	u, err := url.ParseRequestURI(r.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return apperror.New(apperror.BadRequest, "url must be a well-formed http(s) URL")
	}
	if r.TargetPrice <= 0 {
		return apperror.New(apperror.BadRequest, "target price must be positive")
	}
	return nil
}

type ScrapeRequest struct {
	URL  string
	Site Site
}

func (r ScrapeRequest) Validate() *apperror.AppError {
	u, err := url.ParseRequestURI(r.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return apperror.New(apperror.BadRequest, "url must be a well-formed http(s) URL")
	}
	return nil
}

// ProductStatus pairs a product with its most recent observation, if any.
type ProductStatus struct {
	Product
	LatestPrice *PriceRecord `json:"latestPrice,omitempty"`
}

// ScrapeResult is the outcome of a one-shot scrape of a product page.
type ScrapeResult struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	URL   string  `json:"url"`
	Site  Site    `json:"site"`
}
