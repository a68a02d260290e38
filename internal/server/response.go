package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ahmethakanbesel/price-tracker/internal/product"
)

type APIResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func writeJSON[T any](w http.ResponseWriter, status int, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse[T]{
		Message: "ok",
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse[string]{
		Message: message,
		Data:    "",
	})
}

func writeCSV(w http.ResponseWriter, records []product.PriceRecord) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=price-history.csv")
	w.WriteHeader(http.StatusOK)

	_, _ = fmt.Fprintln(w, "ObservedAt,Price")
	for _, rec := range records {
		_, _ = fmt.Fprintf(w, "%s,%.2f\n",
			rec.ObservedAt.UTC().Format(time.RFC3339),
			rec.Price,
		)
	}
}
