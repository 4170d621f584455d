package orderstore

import (
	"github.com/coopfood/coopconsole/pkg/db/models"
	"github.com/coopfood/coopconsole/pkg/enums"
	pkgerrors "github.com/coopfood/coopconsole/pkg/errors"
	"github.com/coopfood/coopconsole/pkg/types"
)

// PaymentTarget names the line items of one order a payment command covers.
// Whole covers every item, including legacy items without an id.
type PaymentTarget struct {
	OrderID string
	ItemIDs []string
	Whole   bool
}

const paidTolerance = 1e-9

func targetOrderIDs(targets []PaymentTarget) []string {
	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		ids = append(ids, t.OrderID)
	}
	return distinct(ids)
}

func validateTargets(targets []PaymentTarget) error {
	if len(targets) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no orders to update")
	}
	for _, t := range targets {
		if t.OrderID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
		}
		if !t.Whole && len(t.ItemIDs) == 0 {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "order %s: no items to update", t.OrderID)
		}
	}
	return nil
}

// applyPayment settles or clears the targeted items of order, then derives the
// order's paid amount and status from all of its items. It returns the indexes
// of the items it changed.
func applyPayment(order *models.Order, target PaymentTarget, paid bool) ([]int, error) {
	var touched []int
	for j := range order.Items {
		if !target.Whole && !containsString(target.ItemIDs, order.Items[j].ID) {
			continue
		}
		order.Items[j].PaidAmount = 0
		if paid {
			order.Items[j].PaidAmount = order.Items[j].TotalPrice
		}
		touched = append(touched, j)
	}
	if !target.Whole && len(touched) != len(distinct(target.ItemIDs)) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found").
			WithDetails(map[string]any{"order_id": order.ID, "expected": len(distinct(target.ItemIDs)), "found": len(touched)})
	}

	if target.Whole {
		order.PaidAmount, order.PaymentStatus = 0, enums.PaymentStatusUnpaid
		if paid {
			order.PaidAmount = order.TotalAmount + order.TransportCost
			order.PaymentStatus = enums.PaymentStatusPaid
		}
		return touched, nil
	}
	order.PaidAmount, order.PaymentStatus = deriveOrderPayment(*order)
	return touched, nil
}

// deriveOrderPayment folds item payments into the order: transport is owed
// once and counts as paid only when every item is.
func deriveOrderPayment(order models.Order) (types.Number, enums.PaymentStatus) {
	var itemsPaid float64
	all := len(order.Items) > 0
	for _, it := range order.Items {
		itemsPaid += it.PaidAmount.Float64()
		if it.PaidAmount.Float64() < it.TotalPrice.Float64()-paidTolerance {
			all = false
		}
	}
	switch {
	case all && itemsPaid > paidTolerance:
		return order.TotalAmount + order.TransportCost, enums.PaymentStatusPaid
	case itemsPaid > paidTolerance:
		return types.Number(itemsPaid), enums.PaymentStatusPartial
	default:
		return 0, enums.PaymentStatusUnpaid
	}
}
