package payments

import (
	"github.com/coopfood/coopconsole/internal/buyers"
	"github.com/coopfood/coopconsole/internal/orderstore"
	"github.com/coopfood/coopconsole/internal/periods"
	"github.com/coopfood/coopconsole/pkg/collation"
	"github.com/coopfood/coopconsole/pkg/db/models"
	"github.com/coopfood/coopconsole/pkg/enums"
)

// Aggregator summarizes one snapshot of orders. Buyer identities and period
// membership are resolved once at construction.
type Aggregator struct {
	orders  []models.Order
	buyers  *buyers.Resolver
	periods *periods.Resolver
	opts    options

	// itemPeriods[i][j] is the resolved period id of orders[i].Items[j].
	itemPeriods [][]string
}

func NewAggregator(orders []models.Order, periodList []models.Period, opts ...Option) *Aggregator {
	o := buildOptions(opts)
	a := &Aggregator{
		orders:  orders,
		buyers:  o.buyers,
		periods: periods.NewResolver(periodList, o.loc),
		opts:    o,
	}
	if a.buyers == nil {
		a.buyers = buyers.NewResolver(orders)
	}
	a.itemPeriods = make([][]string, len(orders))
	for i, order := range orders {
		ids := make([]string, len(order.Items))
		for j, item := range order.Items {
			ids[j] = a.periods.ResolveID(order, item)
		}
		a.itemPeriods[i] = ids
	}
	return a
}

// Buyers exposes the identity resolver bound to the snapshot.
func (a *Aggregator) Buyers() *buyers.Resolver {
	return a.buyers
}

// Periods exposes the period resolver bound to the snapshot.
func (a *Aggregator) Periods() *periods.Resolver {
	return a.periods
}

// SummarizePeriod groups the items resolved to periodID by buyer. An empty
// periodID summarizes the no-period bucket.
func (a *Aggregator) SummarizePeriod(periodID string) PeriodPaymentSummary {
	period := a.periods.Lookup(periodID)
	summary := PeriodPaymentSummary{
		PeriodID:     periodID,
		PeriodName:   periods.DisplayName(period),
		SupplierID:   periods.SupplierID(period),
		SupplierName: periods.SupplierName(period),
	}
	if period != nil {
		delivery := period.DeliveryDate
		summary.DeliveryDate = &delivery
	}
	if period == nil && periodID != periods.NoPeriodID {
		summary.PeriodName = periodID
		summary.Users = []UserPaymentSummary{}
		return summary
	}

	rows := map[string]*UserPaymentSummary{}
	var keys []string
	for i := range a.orders {
		order := &a.orders[i]
		subtotal, paid, matched, whole := a.selectItems(i, periodID)
		if matched == 0 {
			continue
		}
		switch {
		case whole:
			paid = order.PaidAmount.Float64()
		case order.PaymentStatus == enums.PaymentStatusPaid || settled(subtotal, paid):
			// items carry no transport share; settled items cover it for their period
			paid += order.TransportCost.Float64()
		}

		identity := a.buyers.Resolve(*order)
		row, ok := rows[identity.Key]
		if !ok {
			row = &UserPaymentSummary{
				UserID:    identity.Key,
				UserName:  identity.Name,
				UserEmail: identity.Email,
				OrderIDs:  []string{},
			}
			rows[identity.Key] = row
			keys = append(keys, identity.Key)
		}
		row.Subtotal += subtotal
		row.TransportCost += order.TransportCost.Float64()
		row.PaidAmount += paid
		if order.ID != "" {
			row.OrderIDs = appendDistinct(row.OrderIDs, order.ID)
		}
		row.OrdersCount = len(row.OrderIDs)
	}

	summary.Users = make([]UserPaymentSummary, 0, len(keys))
	for _, key := range keys {
		row := rows[key]
		row.Total = row.Subtotal + row.TransportCost
		row.PaymentStatus = DeriveStatus(row.PaidAmount, row.Total)

		summary.TotalSubtotal += row.Subtotal
		summary.TotalTransportCost += row.TransportCost
		summary.TotalPaid += row.PaidAmount
		summary.Users = append(summary.Users, *row)
	}
	summary.GrandTotal = summary.TotalSubtotal + summary.TotalTransportCost
	collation.SortStable(collation.New(a.opts.locale), summary.Users, func(u UserPaymentSummary) string { return u.UserName })
	return summary
}

// SummarizeAll summarizes every known period with at least one buyer, in period
// list order, followed by the no-period bucket when anything landed there.
func (a *Aggregator) SummarizeAll() []PeriodPaymentSummary {
	out := []PeriodPaymentSummary{}
	for _, p := range a.periods.Periods() {
		s := a.SummarizePeriod(p.ID)
		if s.IsEmpty() {
			continue
		}
		out = append(out, s)
	}
	if s := a.SummarizePeriod(periods.NoPeriodID); !s.IsEmpty() {
		out = append(out, s)
	}
	return out
}

// PaymentTargets lists the line items of the buyer's orders resolved to
// periodID. An order entirely inside the period is targeted whole; otherwise
// only its id-bearing items in the period are. Orders without an id are skipped.
func (a *Aggregator) PaymentTargets(periodID, buyerKey string) []orderstore.PaymentTarget {
	var out []orderstore.PaymentTarget
	for i := range a.orders {
		order := &a.orders[i]
		if order.ID == "" || a.buyers.Resolve(*order).Key != buyerKey {
			continue
		}
		target := orderstore.PaymentTarget{OrderID: order.ID}
		matched := 0
		for j, it := range order.Items {
			if a.itemPeriods[i][j] != periodID {
				continue
			}
			matched++
			if it.ID != "" {
				target.ItemIDs = append(target.ItemIDs, it.ID)
			}
		}
		if matched == 0 {
			continue
		}
		target.Whole = matched == len(order.Items)
		if !target.Whole && len(target.ItemIDs) == 0 {
			continue
		}
		out = append(out, target)
	}
	return out
}

// selectItems sums the order's items resolved to periodID. whole is true when
// every item of the order landed in the period.
func (a *Aggregator) selectItems(orderIdx int, periodID string) (subtotal, paid float64, matched int, whole bool) {
	order := &a.orders[orderIdx]
	for j, item := range order.Items {
		if a.itemPeriods[orderIdx][j] != periodID {
			continue
		}
		matched++
		subtotal += item.TotalPrice.Float64()
		paid += item.PaidAmount.Float64()
	}
	return subtotal, paid, matched, matched > 0 && matched == len(order.Items)
}

func appendDistinct(ids []string, id string) []string {
	if containsID(ids, id) {
		return ids
	}
	return append(ids, id)
}
