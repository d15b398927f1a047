package history

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumbunglabs/kasir/internal/history"
	"github.com/lumbunglabs/kasir/internal/money"
)

type Handler struct {
	svc *history.Service
}

func NewHandler(svc *history.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Delete("/", h.clear)
}

type lineResponse struct {
	Barcode         string `json:"barcode"`
	Name            string `json:"name"`
	UnitPrice       int64  `json:"price"`
	Quantity        int    `json:"quantity"`
	Subtotal        int64  `json:"subtotal"`
	SubtotalDisplay string `json:"subtotal_display"`
}

type recordResponse struct {
	ID            int64          `json:"id"`
	Time          string         `json:"time"`
	Lines         []lineResponse `json:"items"`
	Total         int64          `json:"total"`
	Cash          int64          `json:"cash"`
	Change        int64          `json:"change"`
	TotalDisplay  string         `json:"total_display"`
	CashDisplay   string         `json:"cash_display"`
	ChangeDisplay string         `json:"change_display"`
}

func toResponse(rec history.Record) recordResponse {
	resp := recordResponse{
		ID:            rec.ID,
		Time:          rec.Time,
		Lines:         make([]lineResponse, 0, len(rec.Lines)),
		Total:         rec.Total,
		Cash:          rec.Cash,
		Change:        rec.Change,
		TotalDisplay:  money.FormatIDR(rec.Total),
		CashDisplay:   money.FormatIDR(rec.Cash),
		ChangeDisplay: money.FormatIDR(rec.Change),
	}

	for _, l := range rec.Lines {
		resp.Lines = append(resp.Lines, lineResponse{
			Barcode:         l.Barcode,
			Name:            l.Name,
			UnitPrice:       l.UnitPrice,
			Quantity:        l.Quantity,
			Subtotal:        l.Subtotal(),
			SubtotalDisplay: money.FormatIDR(l.Subtotal()),
		})
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]recordResponse, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, toResponse(rec))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
