// Package parse extracts a product name and current price from raw page
// HTML. Extraction rules are dispatched on the product's site tag, with a
// best-effort generic parser as the fallback for unrecognised sites.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ahmethakanbesel/price-tracker/internal/product"
)

type Reason string

const (
	ReasonNoPrice   Reason = "no-price-found"
	ReasonMalformed Reason = "malformed-html"
)

type Error struct {
	Site   product.Site
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s page: %s: %v", e.Site, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s page: %s", e.Site, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

type parseFunc func(doc *goquery.Document) (name string, price float64, ok bool)

// Registry maps site tags to their extraction rules.
type Registry struct {
	parsers map[product.Site]parseFunc
}

func NewRegistry() *Registry {
	return &Registry{
		parsers: map[product.Site]parseFunc{
			product.SiteAmazon:   parseAmazon,
			product.SiteFlipkart: parseFlipkart,
			product.SiteGeneric:  parseGeneric,
		},
	}
}

// Parse extracts the product name and price from html using the rules for
// site. A missing or unparsable price is an error; a missing name is not,
// the caller falls back to the product's stored name.
func (r *Registry) Parse(html string, site product.Site) (string, float64, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", 0, &Error{Site: site, Reason: ReasonMalformed, Err: err}
	}

	fn, ok := r.parsers[site]
	if !ok {
		site = product.SiteGeneric
		fn = r.parsers[product.SiteGeneric]
	}

	name, price, ok := fn(doc)
	if !ok {
		return "", 0, &Error{Site: site, Reason: ReasonNoPrice}
	}
	return name, price, nil
}

func parseAmazon(doc *goquery.Document) (string, float64, bool) {
	name := strings.TrimSpace(doc.Find("#productTitle").First().Text())

	priceEl := doc.Find("#priceblock_ourprice").First()
	if priceEl.Length() == 0 {
		priceEl = doc.Find("#priceblock_dealprice").First()
	}

	price, err := parsePriceText(priceEl.Text())
	if err != nil {
		return name, 0, false
	}
	return name, price, true
}

func parseFlipkart(doc *goquery.Document) (string, float64, bool) {
	name := strings.TrimSpace(doc.Find("span.B_NuCI").First().Text())

	price, err := parsePriceText(doc.Find("div._30jeq3._16Jk6d").First().Text())
	if err != nil {
		return name, 0, false
	}
	return name, price, true
}

// parseGeneric uses the document title as the name and the first text node
// containing a parsable price.
func parseGeneric(doc *goquery.Document) (string, float64, bool) {
	name := strings.TrimSpace(doc.Find("title").First().Text())

	price, ok := findPrice(doc.Find("body"))
	if !ok {
		return name, 0, false
	}
	return name, price, true
}

func findPrice(s *goquery.Selection) (float64, bool) {
	var price float64
	var found bool

	s.Contents().EachWithBreak(func(_ int, c *goquery.Selection) bool {
		switch goquery.NodeName(c) {
		case "script", "style":
			return true
		case "#text":
			if p, err := parsePriceText(c.Text()); err == nil {
				price, found = p, true
				return false
			}
			return true
		default:
			if p, ok := findPrice(c); ok {
				price, found = p, true
				return false
			}
			return true
		}
	})

	return price, found
}

var priceTokenRegex = regexp.MustCompile(`\d[\d,.]*`)

// parsePriceText extracts a positive numeric price from display text such as
// "Rs. 1,234.00" or "$59.99". The longest numeric token wins so currency
// abbreviations with trailing dots don't corrupt the value.
func parsePriceText(text string) (float64, error) {
	candidates := priceTokenRegex.FindAllString(text, -1)
	if len(candidates) == 0 {
		return 0, fmt.Errorf("no numeric token in %q", text)
	}

	token := candidates[0]
	for _, c := range candidates[1:] {
		if len(c) > len(token) {
			token = c
		}
	}

	// Drop thousands separators, then collapse any extra decimal points.
	token = strings.ReplaceAll(token, ",", "")
	if strings.Count(token, ".") > 1 {
		head, tail, _ := strings.Cut(token, ".")
		token = head + "." + strings.ReplaceAll(tail, ".", "")
	}
	token = strings.TrimSuffix(token, ".")

	price, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price from %q: %w", text, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("non-positive price in %q", text)
	}
	return price, nil
}
