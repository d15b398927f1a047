package money

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// jakarta is the till's display timezone. Falls back to a fixed UTC+7 zone
// when the host has no tzdata.
var jakarta = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		return time.FixedZone("WIB", 7*60*60)
	}

	return loc
}()

// FormatIDR renders a whole-rupiah amount the way the till displays it,
// e.g. 35000 -> "Rp 35.000".
func FormatIDR(amount int64) string {
	return printer.Sprintf("Rp %d", amount)
}

// ReceiptTime formats a sale timestamp in the layout printed on receipts,
// e.g. "28/8/2026, 14.30.05". Receipts already written in this layout make
// it part of the export contract.
func ReceiptTime(t time.Time) string {
	return t.In(jakarta).Format("2/1/2006, 15.04.05")
}
