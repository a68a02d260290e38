package parse

import (
	"errors"
	"testing"

	"github.com/ahmethakanbesel/price-tracker/internal/product"
)

func TestParse_Amazon(t *testing.T) {
	html := `<html><body>
		<span id="productTitle"> Demo Camera </span>
		<span id="priceblock_ourprice">$1,299.00</span>
	</body></html>`

	name, price, err := NewRegistry().Parse(html, product.SiteAmazon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Demo Camera" {
		t.Errorf("name: got %q", name)
	}
	if price != 1299.00 {
		t.Errorf("price: got %v, want 1299", price)
	}
}

func TestParse_Amazon_DealPrice(t *testing.T) {
	html := `<html><body>
		<span id="productTitle">Demo Camera</span>
		<span id="priceblock_dealprice">$999.50</span>
	</body></html>`

	_, price, err := NewRegistry().Parse(html, product.SiteAmazon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 999.50 {
		t.Errorf("price: got %v, want 999.5", price)
	}
}

func TestParse_Amazon_MissingName(t *testing.T) {
	html := `<html><body><span id="priceblock_ourprice">$10.00</span></body></html>`

	name, price, err := NewRegistry().Parse(html, product.SiteAmazon)
	if err != nil {
		t.Fatalf("missing name should not be fatal, got %v", err)
	}
	if name != "" {
		t.Errorf("expected empty name, got %q", name)
	}
	if price != 10 {
		t.Errorf("price: got %v, want 10", price)
	}
}

func TestParse_Amazon_NoPrice(t *testing.T) {
	html := `<html><body><span id="productTitle">Demo Camera</span></body></html>`

	_, _, err := NewRegistry().Parse(html, product.SiteAmazon)

	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pe.Reason != ReasonNoPrice {
		t.Errorf("reason: got %s, want %s", pe.Reason, ReasonNoPrice)
	}
}

func TestParse_Flipkart(t *testing.T) {
	html := `<html><body>
		<span class="B_NuCI">Demo Phone</span>
		<div class="_30jeq3 _16Jk6d">₹12,499</div>
	</body></html>`

	name, price, err := NewRegistry().Parse(html, product.SiteFlipkart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Demo Phone" {
		t.Errorf("name: got %q", name)
	}
	if price != 12499 {
		t.Errorf("price: got %v, want 12499", price)
	}
}

func TestParse_Generic(t *testing.T) {
	html := `<html>
		<head><title>Demo Product</title></head>
		<body><div>Only Rs. 1,234.00 today!</div></body>
	</html>`

	name, price, err := NewRegistry().Parse(html, product.SiteGeneric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Demo Product" {
		t.Errorf("name: got %q", name)
	}
	if price != 1234.00 {
		t.Errorf("price: got %v, want 1234", price)
	}
}

func TestParse_UnknownSiteFallsBackToGeneric(t *testing.T) {
	html := `<html><head><title>Widget</title></head><body><p>€49.99</p></body></html>`

	name, price, err := NewRegistry().Parse(html, product.Site("shopify"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Widget" || price != 49.99 {
		t.Errorf("got %q / %v", name, price)
	}
}

func TestParse_Generic_NoPrice(t *testing.T) {
	html := `<html><head><title>No Numbers Here</title></head><body><p>out of stock</p></body></html>`

	_, _, err := NewRegistry().Parse(html, product.SiteGeneric)

	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pe.Reason != ReasonNoPrice {
		t.Errorf("reason: got %s, want %s", pe.Reason, ReasonNoPrice)
	}
}

func TestParsePriceText(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"$59.99", 59.99, false},
		{"1,234.56", 1234.56, false},
		{"Rs. 1,234.00 only", 1234.00, false},
		{"₹12,499", 12499, false},
		{"price: 100", 100, false},
		{"no digits", 0, true},
		{"0.00", 0, true},
	}

	for _, tt := range tests {
		got, err := parsePriceText(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parsePriceText(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePriceText(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePriceText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSiteFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want product.Site
	}{
		{"https://www.amazon.in/dp/B0C7H1MCYH", product.SiteAmazon},
		{"https://www.flipkart.com/some-phone/p/itm123", product.SiteFlipkart},
		{"https://shop.example.com/product/1", product.SiteGeneric},
		{"not-a-url", product.SiteGeneric},
	}

	for _, tt := range tests {
		if got := product.SiteFromURL(tt.url); got != tt.want {
			t.Errorf("SiteFromURL(%q) = %s, want %s", tt.url, got, tt.want)
		}
	}
}
