package till

import (
	"strings"
	"sync"
	"time"
)

// DefaultScanCooldown matches the gate the browser till used: one physical
// scan produces a burst of identical decodes, and anything inside 1.5s of
// the last accepted decode is the same scan.
const DefaultScanCooldown = 1500 * time.Millisecond

// Debouncer discards decode events that arrive within the cooldown of the
// previously accepted one.
type Debouncer struct {
	cooldown time.Duration
	last     time.Time
}

func NewDebouncer(cooldown time.Duration) *Debouncer {
	if cooldown <= 0 {
		cooldown = DefaultScanCooldown
	}

	return &Debouncer{cooldown: cooldown}
}

// Allow reports whether a decode at t passes the gate, and records t as the
// last accepted decode if it does.
func (d *Debouncer) Allow(t time.Time) bool {
	if !d.last.IsZero() && t.Sub(d.last) < d.cooldown {
		return false
	}

	d.last = t

	return true
}

// Scanner feeds decoded barcodes from the scanning engine into a session,
// applying the debounce gate first. The engine is a black box that emits
// decoded strings at arbitrary wall-clock times.
type Scanner struct {
	session *Session

	mu       sync.Mutex
	debounce *Debouncer
}

func NewScanner(session *Session, cooldown time.Duration) *Scanner {
	return &Scanner{
		session:  session,
		debounce: NewDebouncer(cooldown),
	}
}

// Decoded handles one decode event. accepted is false when the event was
// discarded by the gate (or the code was blank); err carries the unknown
// product branch when the code passed the gate but matched no product.
func (sc *Scanner) Decoded(code string, at time.Time) (st State, accepted bool, err error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return sc.session.Snapshot(), false, nil
	}

	sc.mu.Lock()
	ok := sc.debounce.Allow(at)
	sc.mu.Unlock()

	if !ok {
		return sc.session.Snapshot(), false, nil
	}

	st, err = sc.session.AddOne(code)

	return st, true, err
}
