package server

import (
	"net/http"

	"github.com/ahmethakanbesel/price-tracker/internal/product"
)

// Waker triggers an immediate scheduler cycle.
type Waker interface {
	CheckNow()
}

// NewHandler creates the full HTTP handler with routes and middleware.
// Exported for use in tests (e.g., httptest.NewServer).
func NewHandler(productSvc *product.Service, scheduler Waker) http.Handler {
	return newMux(productSvc, scheduler)
}

func newMux(productSvc *product.Service, scheduler Waker) http.Handler {
	h := &handler{
		productSvc: productSvc,
		scheduler:  scheduler,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /api/v1/products", h.addProduct)
	mux.HandleFunc("GET /api/v1/products", h.listProducts)
	mux.HandleFunc("POST /api/v1/products/{id}/toggle", h.toggleActive)
	mux.HandleFunc("GET /api/v1/products/{id}/history", h.getHistory)
	mux.HandleFunc("GET /api/v1/scrape", h.scrape)
	mux.HandleFunc("POST /api/v1/check", h.checkNow)

	// Apply middleware stack: recovery -> requestID -> logging
	var handler http.Handler = mux
	handler = logging(handler)
	handler = requestID(handler)
	handler = recovery(handler)

	return handler
}
