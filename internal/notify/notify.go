// Package notify delivers price drop alerts. Transports are pluggable
// behind the Notifier interface; delivery is fire-and-forget and a product
// that stays below target notifies again on every qualifying cycle.
package notify

import (
	"context"
	"fmt"

	"github.com/ahmethakanbesel/price-tracker/internal/product"
)

type Notifier interface {
	Notify(ctx context.Context, p product.Product, currentPrice float64) error
}

type Error struct {
	Transport string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("notify via %s: %v", e.Transport, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
