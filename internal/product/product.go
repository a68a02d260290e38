package product

import (
	"net/url"
	"strings"
	"time"
)

// Site identifies which parsing rules apply to a product page.
type Site string

const (
	SiteAmazon   Site = "amazon"
	SiteFlipkart Site = "flipkart"
	SiteGeneric  Site = "generic"
)

// SiteFromURL derives the site tag from the URL host. Unrecognised hosts
// fall back to SiteGeneric.
func SiteFromURL(rawURL string) Site {
	u, err := url.Parse(rawURL)
	if err != nil {
		return SiteGeneric
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "amazon."):
		return SiteAmazon
	case strings.Contains(host, "flipkart."):
		return SiteFlipkart
	default:
		return SiteGeneric
	}
}

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Site        Site      `json:"site"`
	TargetPrice float64   `json:"targetPrice"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PriceRecord is a single observed price. Records are append-only: one per
// successful fetch+parse cycle, never mutated or deleted.
type PriceRecord struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"productId"`
	Price      float64   `json:"price"`
	ObservedAt time.Time `json:"observedAt"`
}
