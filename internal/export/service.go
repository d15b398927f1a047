package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/lumbunglabs/kasir/internal/money"
	"github.com/lumbunglabs/kasir/internal/till"
)

// Service renders the current sale as flat tabular text for download.
// The layout (header labels, row order, the trailer rows and their odd
// empty-column padding) is byte-compatible with receipts exported by the
// previous till, so it is built by hand rather than through encoding/csv,
// which would re-quote the trailer rows and the timestamp.
type Service struct {
	now func() time.Time
}

// NewService builds the exporter. now may be nil; tests inject a fixed
// clock.
func NewService(now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	return &Service{now: now}
}

// Receipt renders the cart and the last evaluation of st. Cash and change
// print as zero when payment has not been evaluated yet, matching the old
// exports. An empty cart has nothing to export.
func (s *Service) Receipt(st till.State) (string, error) {
	if st.Total <= 0 {
		return "", till.ErrEmptyCart
	}

	var cash, change int64
	if st.Evaluation != nil {
		cash = st.Evaluation.Cash
		change = st.Evaluation.Change
	}

	var sb strings.Builder

	sb.WriteString("Product,Quantity,Price,Line Total\n")

	for _, line := range st.Lines {
		fmt.Fprintf(&sb, "%s,%d,%d,%d\n", line.Name, line.Quantity, line.UnitPrice, line.Subtotal())
	}

	fmt.Fprintf(&sb, "Subtotal,, ,%d\n", st.Total)
	fmt.Fprintf(&sb, "Cash,, ,%d\n", cash)
	fmt.Fprintf(&sb, "Change,, ,%d\n", change)
	fmt.Fprintf(&sb, "Time,, ,%s\n", money.ReceiptTime(s.now()))

	return sb.String(), nil
}

// Filename returns the legacy download name for an exported receipt.
func (s *Service) Filename() string {
	return fmt.Sprintf("IL_Receipt_%d.csv", s.now().UnixMilli())
}
