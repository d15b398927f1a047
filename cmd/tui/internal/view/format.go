package view

import (
	"context"
	"time"

	"github.com/lumbunglabs/kasir/internal/money"
)

const storeTimeout = 5 * time.Second

// FormatAmount renders a rupiah amount for display.
func FormatAmount(amount int64) string {
	return money.FormatIDR(amount)
}

// StoreCtx returns a context with a standard timeout for receipt store
// operations.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
