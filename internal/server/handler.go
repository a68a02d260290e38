package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ahmethakanbesel/price-tracker/internal/analyze"
	"github.com/ahmethakanbesel/price-tracker/internal/apperror"
	"github.com/ahmethakanbesel/price-tracker/internal/fetch"
	"github.com/ahmethakanbesel/price-tracker/internal/parse"
	"github.com/ahmethakanbesel/price-tracker/internal/product"
)

type handler struct {
	productSvc *product.Service
	scheduler  Waker
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req product.AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.productSvc.AddProduct(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Store an initial snapshot right away so the product has a baseline
	// before the first scheduled cycle. A scrape failure here is not fatal;
	// the scheduler will retry on its next cycle.
	if _, err := h.productSvc.Check(r.Context(), *p); err != nil {
		slog.Warn("initial price snapshot failed", "product", p.ID, "error", err)
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	products, err := h.productSvc.ListProducts(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *handler) toggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.productSvc.ToggleActive(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

type historyData struct {
	Product product.Product       `json:"product"`
	Records []product.PriceRecord `json:"records"`
	Stats   analyze.Stats         `json:"stats"`
	Trend   analyze.Direction     `json:"trend"`
}

func (h *handler) getHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	records, err := h.productSvc.GetHistory(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, records)
		return
	}

	writeJSON(w, http.StatusOK, historyData{
		Product: *p,
		Records: records,
		Stats:   analyze.Summarize(records),
		Trend:   analyze.Trend(records),
	})
}

func (h *handler) scrape(w http.ResponseWriter, r *http.Request) {
	req := product.ScrapeRequest{
		URL:  r.URL.Query().Get("url"),
		Site: product.Site(r.URL.Query().Get("site")),
	}

	result, err := h.productSvc.Scrape(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *handler) checkNow(w http.ResponseWriter, _ *http.Request) {
	h.scheduler.CheckNow()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "cycle scheduled"})
}

func writeServiceError(w http.ResponseWriter, err error) {
	var ae *apperror.AppError
	if errors.As(err, &ae) {
		writeError(w, ae.HTTPStatus(), ae.Message())
		return
	}

	// Upstream page problems are the remote site's fault, not ours.
	var fe *fetch.Error
	var pe *parse.Error
	if errors.As(err, &fe) || errors.As(err, &pe) {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeError(w, http.StatusInternalServerError, err.Error())
}
