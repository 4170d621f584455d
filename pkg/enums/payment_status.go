package enums

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentStatus is the derived settlement state of a buyer's total.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusUnpaid,
	PaymentStatusPartial,
	PaymentStatusPaid,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// Rank orders statuses UNPAID < PARTIAL < PAID.
func (p PaymentStatus) Rank() int {
	for i, candidate := range validPaymentStatuses {
		if candidate == p {
			return i
		}
	}
	return -1
}

// ParsePaymentStatus converts raw input into a PaymentStatus. Exported
// snapshots spell it in lower case, the database in upper case; empty means unpaid.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return PaymentStatusUnpaid, nil
	}
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}

// UnmarshalJSON normalizes the stored status through ParsePaymentStatus.
func (p *PaymentStatus) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding payment status: %w", err)
	}
	if raw == nil {
		*p = PaymentStatusUnpaid
		return nil
	}
	parsed, err := ParsePaymentStatus(*raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
