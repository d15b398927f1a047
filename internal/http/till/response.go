package till

import (
	"github.com/lumbunglabs/kasir/internal/history"
	"github.com/lumbunglabs/kasir/internal/money"
	"github.com/lumbunglabs/kasir/internal/till"
)

type lineResponse struct {
	Barcode         string `json:"barcode"`
	Name            string `json:"name"`
	UnitPrice       int64  `json:"unit_price"`
	Quantity        int    `json:"quantity"`
	Subtotal        int64  `json:"subtotal"`
	SubtotalDisplay string `json:"subtotal_display"`
}

type evaluationResponse struct {
	Total         int64  `json:"total"`
	Cash          int64  `json:"cash"`
	Change        int64  `json:"change"`
	Accepted      bool   `json:"accepted"`
	CashDisplay   string `json:"cash_display"`
	ChangeDisplay string `json:"change_display"`
}

type stateResponse struct {
	SessionID    string              `json:"session_id"`
	Phase        string              `json:"phase"`
	Lines        []lineResponse      `json:"lines"`
	Total        int64               `json:"total"`
	TotalDisplay string              `json:"total_display"`
	Evaluation   *evaluationResponse `json:"evaluation,omitempty"`
	Warning      string              `json:"warning,omitempty"`
}

type scanResponse struct {
	Accepted bool `json:"accepted"`
	stateResponse
}

type receiptResponse struct {
	ID     int64          `json:"id"`
	Time   string         `json:"time"`
	Lines  []lineResponse `json:"items"`
	Total  int64          `json:"total"`
	Cash   int64          `json:"cash"`
	Change int64          `json:"change"`
}

func toLineResponse(l till.Line) lineResponse {
	return lineResponse{
		Barcode:         l.Barcode,
		Name:            l.Name,
		UnitPrice:       l.UnitPrice,
		Quantity:        l.Quantity,
		Subtotal:        l.Subtotal(),
		SubtotalDisplay: money.FormatIDR(l.Subtotal()),
	}
}

func toEvaluationResponse(eval till.Evaluation) *evaluationResponse {
	return &evaluationResponse{
		Total:         eval.Total,
		Cash:          eval.Cash,
		Change:        eval.Change,
		Accepted:      eval.Accepted,
		CashDisplay:   money.FormatIDR(eval.Cash),
		ChangeDisplay: money.FormatIDR(eval.Change),
	}
}

func toStateResponse(st till.State, warning string) stateResponse {
	resp := stateResponse{
		SessionID:    st.SessionID.String(),
		Phase:        string(st.Phase),
		Lines:        make([]lineResponse, 0, len(st.Lines)),
		Total:        st.Total,
		TotalDisplay: money.FormatIDR(st.Total),
		Warning:      warning,
	}

	for _, l := range st.Lines {
		resp.Lines = append(resp.Lines, toLineResponse(l))
	}

	if st.Evaluation != nil {
		resp.Evaluation = toEvaluationResponse(*st.Evaluation)
	}

	return resp
}

func toReceiptResponse(rec history.Record) receiptResponse {
	resp := receiptResponse{
		ID:     rec.ID,
		Time:   rec.Time,
		Lines:  make([]lineResponse, 0, len(rec.Lines)),
		Total:  rec.Total,
		Cash:   rec.Cash,
		Change: rec.Change,
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
