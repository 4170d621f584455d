package payments

import "github.com/coopfood/coopconsole/pkg/enums"

// tolerance absorbs float noise from summing many prices.
const tolerance = 1e-9

// DeriveStatus is the single payment state function used at every level:
// PAID once paid covers total, PARTIAL for any positive shortfall, else UNPAID.
func DeriveStatus(paid, total float64) enums.PaymentStatus {
	switch {
	case paid >= total-tolerance:
		return enums.PaymentStatusPaid
	case paid > tolerance:
		return enums.PaymentStatusPartial
	default:
		return enums.PaymentStatusUnpaid
	}
}

// settled reports whether a selection of items is paid in full.
func settled(subtotal, paid float64) bool {
	return paid > tolerance && paid >= subtotal-tolerance
}
