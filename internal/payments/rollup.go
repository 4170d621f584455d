package payments

import (
	"time"

	"github.com/coopfood/coopconsole/internal/periods"
	"github.com/coopfood/coopconsole/pkg/collation"
	"github.com/coopfood/coopconsole/pkg/db/models"
)

// SummarizeBySupplier merges period summaries of the same supplier into one row
// per buyer. Status is derived again from the consolidated figures. Empty
// summaries are skipped.
func SummarizeBySupplier(summaries []PeriodPaymentSummary, periodList []models.Period, opts ...Option) []SupplierPaymentData {
	o := buildOptions(opts)
	byID := make(map[string]*models.Period, len(periodList))
	for i := range periodList {
		if _, dup := byID[periodList[i].ID]; !dup {
			byID[periodList[i].ID] = &periodList[i]
		}
	}

	groups := map[string]*supplierGroup{}
	var order []string
	for _, s := range summaries {
		if s.IsEmpty() {
			continue
		}
		supplierID, supplierName := s.SupplierID, s.SupplierName
		if p, ok := byID[s.PeriodID]; ok {
			supplierID, supplierName = periods.SupplierID(p), periods.SupplierName(p)
		}
		if supplierName == "" {
			supplierName = periods.UnknownSupplier
		}
		key := supplierID
		if key == "" {
			key = "name:" + supplierName
		}
		g, ok := groups[key]
		if !ok {
			g = &supplierGroup{
				data:  SupplierPaymentData{SupplierID: supplierID, SupplierName: supplierName, PeriodIDs: []string{}},
				users: newUserRollup(),
			}
			groups[key] = g
			order = append(order, key)
		}
		g.data.PeriodIDs = append(g.data.PeriodIDs, s.PeriodID)
		for _, u := range s.Users {
			g.users.add(u, PeriodContribution{})
		}
	}

	sorter := collation.New(o.locale)
	out := make([]SupplierPaymentData, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.data.Users = make([]UserPaymentSummary, 0, len(g.users.keys))
		for _, row := range g.users.rows() {
			g.data.Users = append(g.data.Users, row.asUserSummary())
			g.data.TotalSubtotal += row.Subtotal
			g.data.TotalTransportCost += row.TransportCost
			g.data.TotalPaid += row.PaidAmount
		}
		g.data.GrandTotal = g.data.TotalSubtotal + g.data.TotalTransportCost
		collation.SortStable(sorter, g.data.Users, func(u UserPaymentSummary) string { return u.UserName })
		out = append(out, g.data)
	}
	collation.SortStable(sorter, out, func(d SupplierPaymentData) string { return d.SupplierName })
	return out
}

// SummarizeByBuyer merges every period summary into one row per buyer, keeping
// the per-period contributions for drill-down.
func SummarizeByBuyer(summaries []PeriodPaymentSummary, opts ...Option) []AggregatedUserPayment {
	o := buildOptions(opts)
	rollup := newUserRollup()
	for _, s := range summaries {
		for _, u := range s.Users {
			rollup.add(u, PeriodContribution{
				PeriodID:      s.PeriodID,
				PeriodName:    s.PeriodName,
				SupplierName:  s.SupplierName,
				Subtotal:      u.Subtotal,
				TransportCost: u.TransportCost,
				Total:         u.Total,
				PaidAmount:    u.PaidAmount,
				PaymentStatus: u.PaymentStatus,
				OrderIDs:      u.OrderIDs,
			})
		}
	}
	out := make([]AggregatedUserPayment, 0, len(rollup.keys))
	for _, row := range rollup.rows() {
		out = append(out, *row)
	}
	collation.SortStable(collation.New(o.locale), out, func(u AggregatedUserPayment) string { return u.UserName })
	return out
}

// Overview builds the payments-overview report: only periods delivered on or
// before now's day, empty periods omitted, rolled up by supplier.
func Overview(orders []models.Order, periodList []models.Period, now time.Time, opts ...Option) OverviewReport {
	o := buildOptions(opts)
	agg := NewAggregator(orders, periodList, opts...)

	delivered := make([]models.Period, 0, len(periodList))
	summaries := []PeriodPaymentSummary{}
	for _, p := range agg.Periods().Periods() {
		if !periods.DeliveredBy(p, now, o.loc) {
			continue
		}
		s := agg.SummarizePeriod(p.ID)
		if s.IsEmpty() {
			continue
		}
		delivered = append(delivered, p)
		summaries = append(summaries, s)
	}

	report := OverviewReport{
		GeneratedAt: now,
		Suppliers:   SummarizeBySupplier(summaries, delivered, opts...),
		Warnings:    agg.Periods().Overlaps(),
	}
	for _, s := range report.Suppliers {
		report.TotalSubtotal += s.TotalSubtotal
		report.TotalTransportCost += s.TotalTransportCost
		report.TotalPaid += s.TotalPaid
	}
	report.GrandTotal = report.TotalSubtotal + report.TotalTransportCost
	return report
}

type supplierGroup struct {
	data  SupplierPaymentData
	users *userRollup
}

// userRollup accumulates buyer rows keyed by identity key in first-seen order.
type userRollup struct {
	byKey map[string]*AggregatedUserPayment
	keys  []string
}

func newUserRollup() *userRollup {
	return &userRollup{byKey: map[string]*AggregatedUserPayment{}}
}

func (r *userRollup) add(u UserPaymentSummary, contribution PeriodContribution) {
	row, ok := r.byKey[u.UserID]
	if !ok {
		row = &AggregatedUserPayment{
			UserID:    u.UserID,
			UserName:  u.UserName,
			UserEmail: u.UserEmail,
			OrderIDs:  []string{},
			Periods:   []PeriodContribution{},
		}
		r.byKey[u.UserID] = row
		r.keys = append(r.keys, u.UserID)
	}
	row.Subtotal += u.Subtotal
	row.TransportCost += u.TransportCost
	row.PaidAmount += u.PaidAmount
	for _, id := range u.OrderIDs {
		// an order split across periods counts once
		row.OrderIDs = appendDistinct(row.OrderIDs, id)
	}
	row.OrdersCount = len(row.OrderIDs)
	if contribution.PeriodName != "" {
		row.Periods = append(row.Periods, contribution)
	}
}

func (r *userRollup) rows() []*AggregatedUserPayment {
	out := make([]*AggregatedUserPayment, 0, len(r.keys))
	for _, key := range r.keys {
		row := r.byKey[key]
		row.Total = row.Subtotal + row.TransportCost
		row.PaymentStatus = DeriveStatus(row.PaidAmount, row.Total)
		out = append(out, row)
	}
	return out
}

func (u *AggregatedUserPayment) asUserSummary() UserPaymentSummary {
	return UserPaymentSummary{
		UserID:        u.UserID,
		UserName:      u.UserName,
		UserEmail:     u.UserEmail,
		Subtotal:      u.Subtotal,
		TransportCost: u.TransportCost,
		Total:         u.Total,
		PaidAmount:    u.PaidAmount,
		OrdersCount:   u.OrdersCount,
		OrderIDs:      u.OrderIDs,
		PaymentStatus: u.PaymentStatus,
	}
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
