package till

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumbunglabs/kasir/internal/export"
	"github.com/lumbunglabs/kasir/internal/till"
)

// Handler exposes one till session to the browser register. Till errors are
// transient warnings for the cashier, never server failures: they map to
// 4xx with the warning text in the body, and the front end clears them
// after its warning TTL.
type Handler struct {
	session *till.Session
	scanner *till.Scanner
	export  *export.Service
	now     func() time.Time
}

func NewHandler(session *till.Session, scanner *till.Scanner, exportSvc *export.Service, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}

	return &Handler{
		session: session,
		scanner: scanner,
		export:  exportSvc,
		now:     now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.state)
	r.Post("/lines", h.addLine)
	r.Delete("/lines/{barcode}", h.removeLine)
	r.Post("/scan", h.scan)
	r.Post("/clear", h.clear)
	r.Post("/pay", h.pay)
	r.Post("/complete", h.complete)
	r.Get("/export", h.exportReceipt)
}

// warningStatus maps the till's recoverable error taxonomy to a status
// code. Anything outside it is a real failure.
func warningStatus(err error) (string, int) {
	var unknown *till.UnknownProductError
	if errors.As(err, &unknown) {
		return unknown.Error(), http.StatusNotFound
	}

	if errors.Is(err, till.ErrEmptyCart) ||
		errors.Is(err, till.ErrInsufficientCash) ||
		errors.Is(err, till.ErrPaymentNotEvaluated) {
		return err.Error(), http.StatusUnprocessableEntity
	}

	return "", 0
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStateResponse(h.session.Snapshot(), ""))
}

type addLineRequest struct {
	Barcode string `json:"barcode"`
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := h.session.AddOne(req.Barcode)
	if err != nil {
		warning, status := warningStatus(err)
		writeJSON(w, status, toStateResponse(st, warning))

		return
	}

	writeJSON(w, http.StatusOK, toStateResponse(st, ""))
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	var st till.State
	if r.URL.Query().Get("all") == "true" {
		st = h.session.DeleteLine(barcode)
	} else {
		st = h.session.RemoveOne(barcode)
	}

	writeJSON(w, http.StatusOK, toStateResponse(st, ""))
}

type scanRequest struct {
	Code string `json:"code"`
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, accepted, err := h.scanner.Decoded(req.Code, h.now())
	if err != nil {
		warning, status := warningStatus(err)
		writeJSON(w, status, scanResponse{
			Accepted:      accepted,
			stateResponse: toStateResponse(st, warning),
		})

		return
	}

	writeJSON(w, http.StatusOK, scanResponse{
		Accepted:      accepted,
		stateResponse: toStateResponse(st, ""),
	})
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStateResponse(h.session.Clear(), ""))
}

type payRequest struct {
	Cash int64 `json:"cash"`
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	eval, err := h.session.Pay(req.Cash)
	if err != nil {
		warning, status := warningStatus(err)
		resp := toStateResponse(h.session.Snapshot(), warning)

		// On insufficient cash the register still shows the tendered
		// amount and a change of zero.
		if errors.Is(err, till.ErrInsufficientCash) {
			resp.Evaluation = toEvaluationResponse(eval)
		}

		writeJSON(w, status, resp)

		return
	}

	writeJSON(w, http.StatusOK, toStateResponse(h.session.Snapshot(), ""))
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	rec, err := h.session.CompleteSale(r.Context())
	if err != nil {
		if warning, status := warningStatus(err); status != 0 {
			writeJSON(w, status, toStateResponse(h.session.Snapshot(), warning))
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, toReceiptResponse(rec))
}

func (h *Handler) exportReceipt(w http.ResponseWriter, r *http.Request) {
	blob, err := h.export.Receipt(h.session.Snapshot())
	if err != nil {
		warning, status := warningStatus(err)
		writeJSON(w, status, toStateResponse(h.session.Snapshot(), warning))

		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.export.Filename()+`"`)

	if _, err := w.Write([]byte(blob)); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
