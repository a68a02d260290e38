package notify

import (
	"context"
	"log/slog"

	"github.com/ahmethakanbesel/price-tracker/internal/product"
)

// LogNotifier writes alerts to the log. It is the fallback transport when no
// SMTP settings are configured and never fails.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) Notify(_ context.Context, p product.Product, currentPrice float64) error {
	slog.Info("price drop alert",
		"product", p.Name,
		"url", p.URL,
		"currentPrice", currentPrice,
		"targetPrice", p.TargetPrice,
	)
	return nil
}
