package baskets

import (
	"github.com/coopfood/coopconsole/internal/periods"
	"github.com/coopfood/coopconsole/pkg/db/models"
)

// Target is one line item a toggle writes to.
type Target struct {
	OrderID string `json:"order_id"`
	ItemID  string `json:"item_id"`
}

// AllPrepared is true iff there is at least one leaf and every leaf is prepared.
func AllPrepared(leaves []Leaf) bool {
	if len(leaves) == 0 {
		return false
	}
	for _, l := range leaves {
		if !l.IsPrepared {
			return false
		}
	}
	return true
}

// PeriodPrepared applies the all-of rule to every item resolved to the period,
// whatever the active filter hides.
func PeriodPrepared(orders []models.Order, resolver *periods.Resolver, periodID string) bool {
	seen := false
	for _, order := range orders {
		for _, item := range order.Items {
			if resolver.ResolveID(order, item) != periodID {
				continue
			}
			if !item.IsPrepared {
				return false
			}
			seen = true
		}
	}
	return seen
}

// ArticleTargets lists the leaves a toggle of the article hits in the given tree.
func ArticleTargets(tree []PeriodBasket, periodID, articleID string) ([]Target, bool) {
	period, ok := FindPeriod(tree, periodID)
	if !ok {
		return nil, false
	}
	article, ok := period.Article(articleID)
	if !ok {
		return nil, false
	}
	targets := make([]Target, 0, len(article.Leaves))
	for _, l := range article.Leaves {
		targets = append(targets, l.Target())
	}
	return targets, true
}

// PeriodTargets lists every item resolved to the period. Filters do not apply.
func PeriodTargets(orders []models.Order, resolver *periods.Resolver, periodID string) []Target {
	targets := []Target{}
	for _, order := range orders {
		for _, item := range order.Items {
			if resolver.ResolveID(order, item) == periodID {
				targets = append(targets, Target{OrderID: order.ID, ItemID: item.ID})
			}
		}
	}
	return targets
}

// RemoveItem returns the orders without the item. An order whose last item
// goes is dropped as well. The input slice and its orders are left untouched.
func RemoveItem(orders []models.Order, orderID, itemID string) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.ID != orderID {
			out = append(out, order)
			continue
		}
		items := make([]models.OrderItem, 0, len(order.Items))
		for _, item := range order.Items {
			if item.ID == itemID {
				continue
			}
			items = append(items, item)
		}
		if len(items) == 0 {
			continue
		}
		order.Items = items
		out = append(out, order)
	}
	return out
}
