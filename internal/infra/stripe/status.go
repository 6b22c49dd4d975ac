package stripe

import "strings"

// Stripe-ish normalization used ONLY for checkout payment_status.
func NormalizePaymentStatus(s string) string {
	switch strings.TrimSpace(s) {
	case "paid":
		return "paid"
	case "no_payment_required":
		// zero-amount sessions never authorize a grant
		return "unpaid"
	case "", "unpaid":
		return "unpaid"
	default:
		return strings.TrimSpace(s)
	}
}
