package till

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientCash    = errors.New("cash is less than the total fee")
	ErrPaymentNotEvaluated = errors.New("payment has not been evaluated")
)

// UnknownProductError reports a scanned or typed barcode with no catalog
// entry. It is a normal branch of every add, not a failure of the till.
type UnknownProductError struct {
	Barcode string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("product not found: %s", e.Barcode)
}

// Line is one cart entry. Name and UnitPrice are copied from the catalog
// when the line is created, so a line never exists with Quantity < 1 and
// never reprices after it is in the cart.
type Line struct {
	Barcode   string
	Name      string
	UnitPrice int64
	Quantity  int
}

// Subtotal is quantity times the price captured at scan time.
func (l Line) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Evaluation is the result of checking tendered cash against the cart
// total. A failed check never reports negative change.
type Evaluation struct {
	Total    int64
	Cash     int64
	Change   int64
	Accepted bool
}

// Phase is the session's position in the sale lifecycle.
type Phase string

const (
	// PhaseIdle: empty cart, nothing pending.
	PhaseIdle Phase = "idle"
	// PhaseBuilding: items in the cart, payment not (or no longer) evaluated.
	PhaseBuilding Phase = "building"
	// PhaseEvaluated: an accepted evaluation is armed; the sale can complete.
	PhaseEvaluated Phase = "evaluated"
)

// State is an immutable snapshot of a session, safe to hand to any display.
type State struct {
	SessionID  uuid.UUID
	Phase      Phase
	Lines      []Line
	Total      int64
	Evaluation *Evaluation
}
