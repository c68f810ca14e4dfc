package domain

import (
	"math"
	"strings"
)

// Round2 rounds to two decimal places. Applied after every aggregate
// computation so float drift never accumulates across line items.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MoneyEquals compares two monetary amounts within the given absolute
// tolerance.
func MoneyEquals(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

var paymentMethods = map[string]struct{}{
	"COD":        {},
	"CARD":       {},
	"UPI":        {},
	"NETBANKING": {},
	"WALLET":     {},
}

// NormalizePaymentMethod upper-cases the client-supplied method and reports
// whether it is one we accept.
func NormalizePaymentMethod(method string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(method))
	_, ok := paymentMethods[normalized]
	return normalized, ok
}
