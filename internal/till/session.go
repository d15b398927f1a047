package till

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumbunglabs/kasir/internal/catalog"
	"github.com/lumbunglabs/kasir/internal/history"
	"github.com/lumbunglabs/kasir/internal/money"
)

// Session is one till's cart, pending payment evaluation, and link to the
// receipt log. Every operation is a single run-to-completion step on the
// shared state; the mutex serializes the discrete events (key presses,
// decoded barcodes, HTTP requests) that drive it.
type Session struct {
	id      uuid.UUID
	catalog *catalog.Catalog
	history history.Repository
	now     func() time.Time

	mu        sync.Mutex
	order     []string
	lines     map[string]*Line
	pending   *Evaluation
	observers []func(State)
}

// NewSession builds a session for one till. now may be nil, in which case
// wall-clock time is used; tests inject a fixed clock.
func NewSession(cat *catalog.Catalog, repo history.Repository, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}

	return &Session{
		id:      uuid.New(),
		catalog: cat,
		history: repo,
		now:     now,
		lines:   make(map[string]*Line),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// OnChange registers an observer called with a fresh snapshot after every
// state change. The core never renders; displays do. Observers run inside
// the session's critical section and must not call back into it.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, fn)
}

// AddOne adds one unit of the product behind barcode, creating the cart
// line on first scan with the catalog name and price copied at this moment.
// An unknown barcode leaves the cart untouched. Any pending payment
// evaluation is dropped: the total changed, so pay must be pressed again.
func (s *Session) AddOne(barcode string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.catalog.Lookup(barcode)
	if !ok {
		return s.snapshot(), &UnknownProductError{Barcode: barcode}
	}

	line, exists := s.lines[barcode]
	if !exists {
		line = &Line{
			Barcode:   product.Barcode,
			Name:      product.Name,
			UnitPrice: product.UnitPrice,
		}
		s.lines[barcode] = line
		s.order = append(s.order, barcode)
	}

	line.Quantity++
	s.pending = nil

	return s.changed(), nil
}

// RemoveOne takes one unit off the line; the line disappears when its
// quantity would drop below one. Absent barcodes are a no-op.
func (s *Session) RemoveOne(barcode string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, exists := s.lines[barcode]
	if !exists {
		return s.snapshot()
	}

	line.Quantity--
	if line.Quantity <= 0 {
		s.dropLine(barcode)
	}

	s.pending = nil

	return s.changed()
}

// DeleteLine removes the line outright regardless of quantity. Absent
// barcodes are a no-op.
func (s *Session) DeleteLine(barcode string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lines[barcode]; !exists {
		return s.snapshot()
	}

	s.dropLine(barcode)
	s.pending = nil

	return s.changed()
}

// Clear empties the cart and discards any pending evaluation. Clearing an
// already-empty cart is a no-op.
func (s *Session) Clear() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) == 0 && s.pending == nil {
		return s.snapshot()
	}

	s.reset()

	return s.changed()
}

// Total is the sum of all line subtotals; zero for an empty cart.
func (s *Session) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.total()
}

// Pay evaluates tendered cash against the current total. The check itself
// is pure: re-pressing pay with the same cart and cash yields the same
// result. An accepted evaluation is retained as pending and arms
// CompleteSale; a rejected one reports the total with change forced to
// zero and disarms any earlier acceptance.
func (s *Session) Pay(cash int64) (Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.total()
	if total <= 0 {
		return Evaluation{}, ErrEmptyCart
	}

	if cash < total {
		s.pending = nil
		s.notify(s.snapshot())

		return Evaluation{Total: total, Cash: cash, Change: 0}, ErrInsufficientCash
	}

	eval := Evaluation{
		Total:    total,
		Cash:     cash,
		Change:   cash - total,
		Accepted: true,
	}
	s.pending = &eval
	s.notify(s.snapshot())

	return eval, nil
}

// CompleteSale finalizes the transaction: it snapshots the cart and the
// accepted evaluation into a receipt record, appends it to the history
// log, and resets the session. It is only reachable after Pay accepted
// the cash for the cart exactly as it stands now; any mutation in between
// disarms it. A failed append leaves the session untouched.
func (s *Session) CompleteSale(ctx context.Context) (history.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.total() <= 0 {
		return history.Record{}, ErrEmptyCart
	}

	if s.pending == nil || !s.pending.Accepted {
		return history.Record{}, ErrPaymentNotEvaluated
	}

	at := s.now()
	rec := history.Record{
		ID:     at.UnixMilli(),
		Time:   money.ReceiptTime(at),
		Lines:  s.receiptLines(),
		Total:  s.pending.Total,
		Cash:   s.pending.Cash,
		Change: s.pending.Change,
	}

	if err := s.history.Append(ctx, rec); err != nil {
		return history.Record{}, fmt.Errorf("saving receipt: %w", err)
	}

	s.reset()
	s.notify(s.snapshot())

	return rec, nil
}

// Snapshot returns the current state without mutating anything.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// Callers hold the lock for everything below.

func (s *Session) total() int64 {
	var total int64
	for _, line := range s.lines {
		total += line.Subtotal()
	}

	return total
}

func (s *Session) dropLine(barcode string) {
	delete(s.lines, barcode)

	for i, b := range s.order {
		if b == barcode {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Session) reset() {
	s.lines = make(map[string]*Line)
	s.order = nil
	s.pending = nil
}

func (s *Session) receiptLines() []history.Line {
	out := make([]history.Line, 0, len(s.order))
	for _, barcode := range s.order {
		line := s.lines[barcode]
		out = append(out, history.Line{
			Barcode:   line.Barcode,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	return out
}

func (s *Session) snapshot() State {
	lines := make([]Line, 0, len(s.order))
	for _, barcode := range s.order {
		lines = append(lines, *s.lines[barcode])
	}

	st := State{
		SessionID: s.id,
		Lines:     lines,
		Total:     s.total(),
	}

	switch {
	case len(lines) == 0:
		st.Phase = PhaseIdle
	case s.pending != nil && s.pending.Accepted:
		st.Phase = PhaseEvaluated
		eval := *s.pending
		st.Evaluation = &eval
	default:
		st.Phase = PhaseBuilding
	}

	return st
}

func (s *Session) changed() State {
	st := s.snapshot()
	s.notify(st)

	return st
}

func (s *Session) notify(st State) {
	for _, fn := range s.observers {
		fn(st)
	}
}
