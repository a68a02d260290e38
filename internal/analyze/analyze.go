// Package analyze holds the pure price decision logic: target comparison,
// history statistics, and trend direction. It performs no I/O.
package analyze

import "github.com/ahmethakanbesel/price-tracker/internal/product"

type Direction string

const (
	TrendUp     Direction = "up"
	TrendDown   Direction = "down"
	TrendStable Direction = "stable"
)

// Stats summarises a product's price history. Count is zero when no
// observations exist; Min, Max and Avg are meaningless in that case.
type Stats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// ShouldNotify reports whether the current price has reached the target.
// The boundary is inclusive: a price exactly at the target triggers an alert.
func ShouldNotify(currentPrice, targetPrice float64) bool {
	return currentPrice <= targetPrice
}

// Summarize computes min, max and average over the history. An empty history
// yields a zero-count Stats rather than an error.
func Summarize(history []product.PriceRecord) Stats {
	if len(history) == 0 {
		return Stats{}
	}

	s := Stats{
		Min:   history[0].Price,
		Max:   history[0].Price,
		Count: len(history),
	}
	sum := 0.0
	for _, rec := range history {
		if rec.Price < s.Min {
			s.Min = rec.Price
		}
		if rec.Price > s.Max {
			s.Max = rec.Price
		}
		sum += rec.Price
	}
	s.Avg = sum / float64(len(history))
	return s
}

// Trend compares the most recent price to the immediately preceding one.
// History must be ordered chronologically ascending. Fewer than two records
// is insufficient data and yields TrendStable.
func Trend(history []product.PriceRecord) Direction {
	if len(history) < 2 {
		return TrendStable
	}

	last := history[len(history)-1].Price
	prev := history[len(history)-2].Price

	switch {
	case last > prev:
		return TrendUp
	case last < prev:
		return TrendDown
	default:
		return TrendStable
	}
}
