package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumbunglabs/kasir/internal/catalog"
	"github.com/lumbunglabs/kasir/internal/money"
)

type Handler struct {
	catalog *catalog.Catalog
}

func NewHandler(cat *catalog.Catalog) *Handler {
	return &Handler{catalog: cat}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{barcode}", h.get)
}

type productResponse struct {
	Barcode          string `json:"barcode"`
	Name             string `json:"name"`
	UnitPrice        int64  `json:"unit_price"`
	UnitPriceDisplay string `json:"unit_price_display"`
}

func toResponse(p catalog.Product) productResponse {
	return productResponse{
		Barcode:          p.Barcode,
		Name:             p.Name,
		UnitPrice:        p.UnitPrice,
		UnitPriceDisplay: money.FormatIDR(p.UnitPrice),
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Products()
	resp := make([]productResponse, 0, len(products))

	for _, p := range products {
		resp = append(resp, toResponse(p))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.catalog.Lookup(chi.URLParam(r, "barcode"))
	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
