package payments

import (
	"time"

	"github.com/coopfood/coopconsole/internal/periods"
	"github.com/coopfood/coopconsole/pkg/enums"
)

// UserPaymentSummary is one buyer's figures inside one period.
type UserPaymentSummary struct {
	UserID        string              `json:"user_id"`
	UserName      string              `json:"user_name"`
	UserEmail     string              `json:"user_email,omitempty"`
	Subtotal      float64             `json:"subtotal"`
	TransportCost float64             `json:"transport_cost"`
	Total         float64             `json:"total"`
	PaidAmount    float64             `json:"paid_amount"`
	OrdersCount   int                 `json:"orders_count"`
	OrderIDs      []string            `json:"order_ids"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
}

// PeriodPaymentSummary rolls every buyer of a period into period totals.
type PeriodPaymentSummary struct {
	PeriodID           string               `json:"period_id"`
	PeriodName         string               `json:"period_name"`
	SupplierID         string               `json:"supplier_id,omitempty"`
	SupplierName       string               `json:"supplier_name"`
	DeliveryDate       *time.Time           `json:"delivery_date,omitempty"`
	Users              []UserPaymentSummary `json:"users"`
	TotalSubtotal      float64              `json:"total_subtotal"`
	TotalTransportCost float64              `json:"total_transport_cost"`
	TotalPaid          float64              `json:"total_paid"`
	GrandTotal         float64              `json:"grand_total"`
}

// IsEmpty reports whether no buyer contributed to the period.
func (s PeriodPaymentSummary) IsEmpty() bool {
	return len(s.Users) == 0
}

// User finds a buyer row by identity key.
func (s PeriodPaymentSummary) User(key string) (UserPaymentSummary, bool) {
	for _, u := range s.Users {
		if u.UserID == key {
			return u, true
		}
	}
	return UserPaymentSummary{}, false
}

// SupplierPaymentData consolidates a supplier's periods into one row per buyer.
type SupplierPaymentData struct {
	SupplierID         string               `json:"supplier_id,omitempty"`
	SupplierName       string               `json:"supplier_name"`
	PeriodIDs          []string             `json:"period_ids"`
	Users              []UserPaymentSummary `json:"users"`
	TotalSubtotal      float64              `json:"total_subtotal"`
	TotalTransportCost float64              `json:"total_transport_cost"`
	TotalPaid          float64              `json:"total_paid"`
	GrandTotal         float64              `json:"grand_total"`
}

// PeriodContribution is one period's share of a buyer's consolidated row.
type PeriodContribution struct {
	PeriodID      string              `json:"period_id"`
	PeriodName    string              `json:"period_name"`
	SupplierName  string              `json:"supplier_name"`
	Subtotal      float64             `json:"subtotal"`
	TransportCost float64             `json:"transport_cost"`
	Total         float64             `json:"total"`
	PaidAmount    float64             `json:"paid_amount"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	OrderIDs      []string            `json:"order_ids"`
}

// AggregatedUserPayment is a buyer across every period and supplier.
type AggregatedUserPayment struct {
	UserID        string               `json:"user_id"`
	UserName      string               `json:"user_name"`
	UserEmail     string               `json:"user_email,omitempty"`
	Subtotal      float64              `json:"subtotal"`
	TransportCost float64              `json:"transport_cost"`
	Total         float64              `json:"total"`
	PaidAmount    float64              `json:"paid_amount"`
	OrdersCount   int                  `json:"orders_count"`
	OrderIDs      []string             `json:"order_ids"`
	PaymentStatus enums.PaymentStatus  `json:"payment_status"`
	Periods       []PeriodContribution `json:"periods"`
}

// OverviewReport is the payments-overview screen: delivered periods by supplier.
type OverviewReport struct {
	GeneratedAt        time.Time             `json:"generated_at"`
	Suppliers          []SupplierPaymentData `json:"suppliers"`
	TotalSubtotal      float64               `json:"total_subtotal"`
	TotalTransportCost float64               `json:"total_transport_cost"`
	TotalPaid          float64               `json:"total_paid"`
	GrandTotal         float64               `json:"grand_total"`
	Warnings           []periods.Overlap     `json:"overlap_warnings,omitempty"`
}
