// Package monitor drives the recurring price check cycles. Each cycle loads
// the active products and runs fetch→parse→record→analyze→notify for every
// one of them, isolating per-product failures so a broken page never blocks
// the rest of the cycle.
package monitor

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ahmethakanbesel/price-tracker/internal/analyze"
	"github.com/ahmethakanbesel/price-tracker/internal/notify"
	"github.com/ahmethakanbesel/price-tracker/internal/product"
)

// Checker runs one fetch→parse→record pass for a product and returns the
// appended observation.
type Checker interface {
	Check(ctx context.Context, p product.Product) (*product.PriceRecord, error)
}

type Scheduler struct {
	repo     product.Repository
	checker  Checker
	notifier notify.Notifier
	interval time.Duration
	parallel int
	wake     chan struct{}
}

func New(repo product.Repository, checker Checker, notifier notify.Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		repo:     repo,
		checker:  checker,
		notifier: notifier,
		interval: time.Hour,
		parallel: 1,
		wake:     make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithParallelism bounds how many products are checked concurrently within a
// cycle. Each product is still handled start-to-finish by one goroutine, so
// a product's history is never reordered.
func WithParallelism(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.parallel = n
		}
	}
}

// CheckNow wakes the scheduler for an immediate cycle. Non-blocking.
func (s *Scheduler) CheckNow() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run executes a cycle immediately, then repeats every interval until ctx is
// cancelled. In-flight per-product work completes before Run returns.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("scheduler: started", "interval", s.interval.String(), "parallelism", s.parallel)

	for {
		s.runCycle(ctx)

		select {
		case <-ctx.Done():
			slog.Info("scheduler: stopped")
			return
		case <-s.wake:
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	products, err := s.repo.ListProducts(ctx, true)
	if err != nil {
		slog.Error("scheduler: load products", "error", err)
		return
	}
	if len(products) == 0 {
		slog.Info("scheduler: no active products")
		return
	}

	var scraped, notified atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.parallel)

	for _, p := range products {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			ok, sent := s.checkProduct(ctx, p)
			if ok {
				scraped.Add(1)
			}
			if sent {
				notified.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("scheduler: cycle complete",
		"processed", len(products),
		"scraped", scraped.Load(),
		"notified", notified.Load(),
	)
}

// checkProduct runs the full pipeline for one product. All errors are
// converted to log entries here; nothing propagates out of the cycle.
func (s *Scheduler) checkProduct(ctx context.Context, p product.Product) (scraped, notified bool) {
	rec, err := s.checker.Check(ctx, p)
	if err != nil {
		slog.Error("scheduler: check failed", "product", p.ID, "url", p.URL, "error", err)
		return false, false
	}

	history, err := s.repo.GetHistory(ctx, p.ID)
	if err != nil {
		slog.Error("scheduler: load history", "product", p.ID, "error", err)
		return true, false
	}
	stats := analyze.Summarize(history)
	trend := analyze.Trend(history)

	slog.Info("scheduler: price recorded",
		"product", p.ID,
		"price", rec.Price,
		"target", p.TargetPrice,
		"trend", string(trend),
		"min", stats.Min,
		"max", stats.Max,
	)

	if !analyze.ShouldNotify(rec.Price, p.TargetPrice) {
		return true, false
	}

	if err := s.notifier.Notify(ctx, p, rec.Price); err != nil {
		slog.Error("scheduler: notification failed", "product", p.ID, "error", err)
		return true, false
	}

	slog.Info("scheduler: notification sent", "product", p.ID, "price", rec.Price)
	return true, true
}
