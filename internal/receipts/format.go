package receipts

import (
	"fmt"
	"strings"
	"time"
)

// FormatReceipt renders the simulated-payment receipt. No real acquiring
// happens anywhere in the system; the text says so.
func FormatReceipt(orderID string, amount int, customerName, phone string, now time.Time) string {
	if customerName == "" {
		customerName = "—"
	}
	phoneLine := "—"
	if phone != "" {
		// the stored number is the 0-leading local form, e.g. 0671234567
		phoneLine = "+38" + phone
	}
	lines := []string{
		"=== TEST RECEIPT ===",
		fmt.Sprintf("Date:       %s", now.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Order ID:   %s", orderID),
		fmt.Sprintf("Customer:   %s", customerName),
		fmt.Sprintf("Phone:      %s", phoneLine),
		fmt.Sprintf("Amount:     %d UAH", amount),
		"Status:     PAID (test)",
		"Note:       This is a test receipt (no real acquiring).",
	}
	return strings.Join(lines, "\n") + "\n"
}
