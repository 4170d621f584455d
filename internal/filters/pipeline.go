package filters

import (
	"strings"
	"time"

	"github.com/coopfood/coopconsole/internal/buyers"
	"github.com/coopfood/coopconsole/pkg/dates"
	"github.com/coopfood/coopconsole/pkg/db/models"
	"github.com/coopfood/coopconsole/pkg/enums"
)

// Criteria narrows the order or item set. Zero values never exclude anything.
type Criteria struct {
	BuyerID     string
	BuyerText   string
	DateFrom    *time.Time
	DateTo      *time.Time
	Delivered   enums.DeliveredState
	Prepared    enums.PreparedState
	ArticleText string
	Location    *time.Location
}

// IsZero reports whether the criteria would keep everything.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.BuyerID) == "" &&
		strings.TrimSpace(c.BuyerText) == "" &&
		c.DateFrom == nil && c.DateTo == nil &&
		(c.Delivered == "" || c.Delivered == enums.DeliveredStateAll) &&
		(c.Prepared == "" || c.Prepared == enums.PreparedStateAll) &&
		strings.TrimSpace(c.ArticleText) == ""
}

// ItemRef is one surviving line item together with its parent order. Both point
// into the source slice and are read-only.
type ItemRef struct {
	Order *models.Order
	Item  *models.OrderItem
}

// Pipeline is a compiled Criteria bound to a buyer resolver.
type Pipeline struct {
	order       Predicate[*models.Order]
	item        Predicate[ItemRef]
	articleText string
}

// New compiles the criteria. The resolver decides buyer identity for BuyerID and BuyerText.
func New(c Criteria, resolver *buyers.Resolver) *Pipeline {
	p := &Pipeline{articleText: Fold(c.ArticleText)}

	orderPreds := []Predicate[*models.Order]{}
	if ref := strings.TrimSpace(c.BuyerID); ref != "" {
		orderPreds = append(orderPreds, byBuyerID(resolver, ref))
	}
	if text := Fold(c.BuyerText); text != "" {
		orderPreds = append(orderPreds, byBuyerText(resolver, text))
	}
	if c.DateFrom != nil || c.DateTo != nil {
		orderPreds = append(orderPreds, byCreatedAt(c.DateFrom, c.DateTo, c.Location))
	}
	switch c.Delivered {
	case enums.DeliveredStateDelivered:
		orderPreds = append(orderPreds, func(o *models.Order) bool { return o.IsDelivered })
	case enums.DeliveredStateUndelivered:
		orderPreds = append(orderPreds, func(o *models.Order) bool { return !o.IsDelivered })
	}
	p.order = And(orderPreds...)

	itemPreds := []Predicate[ItemRef]{}
	switch c.Prepared {
	case enums.PreparedStatePrepared:
		itemPreds = append(itemPreds, func(r ItemRef) bool { return r.Item.IsPrepared })
	case enums.PreparedStateUnprepared:
		itemPreds = append(itemPreds, func(r ItemRef) bool { return !r.Item.IsPrepared })
	}
	if p.articleText != "" {
		itemPreds = append(itemPreds, func(r ItemRef) bool { return p.matchesArticle(r.Item) })
	}
	p.item = And(itemPreds...)
	return p
}

// Orders keeps the orders passing the order-level predicates. An article text
// keeps orders with at least one matching item. The input is not modified.
func (p *Pipeline) Orders(orders []models.Order) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		if !p.order(o) {
			continue
		}
		if p.articleText != "" && !p.anyItemMatches(o) {
			continue
		}
		out = append(out, *o)
	}
	return out
}

// Items flattens the orders into the line items passing both predicate levels.
func (p *Pipeline) Items(orders []models.Order) []ItemRef {
	var out []ItemRef
	for i := range orders {
		o := &orders[i]
		if !p.order(o) {
			continue
		}
		for j := range o.Items {
			ref := ItemRef{Order: o, Item: &o.Items[j]}
			if p.item(ref) {
				out = append(out, ref)
			}
		}
	}
	return out
}

func (p *Pipeline) anyItemMatches(o *models.Order) bool {
	for i := range o.Items {
		if p.matchesArticle(&o.Items[i]) {
			return true
		}
	}
	return false
}

func (p *Pipeline) matchesArticle(item *models.OrderItem) bool {
	return containsFolded(p.articleText, item.ArticleName())
}

// Apply filters whole orders for the payment views.
func Apply(orders []models.Order, c Criteria) []models.Order {
	return New(c, buyers.NewResolver(orders)).Orders(orders)
}

// ApplyItems filters line items for the basket view.
func ApplyItems(orders []models.Order, c Criteria) []ItemRef {
	return New(c, buyers.NewResolver(orders)).Items(orders)
}

func byBuyerID(resolver *buyers.Resolver, ref string) Predicate[*models.Order] {
	return func(o *models.Order) bool {
		return resolver.Matches(resolver.Resolve(*o), ref)
	}
}

func byBuyerText(resolver *buyers.Resolver, folded string) Predicate[*models.Order] {
	return func(o *models.Order) bool {
		identity := resolver.Resolve(*o)
		return containsFolded(folded, identity.Name, identity.Key, o.BuyerName, o.BuyerEmail, o.BuyerID)
	}
}

func byCreatedAt(from, to *time.Time, loc *time.Location) Predicate[*models.Order] {
	return func(o *models.Order) bool {
		if from != nil && o.CreatedAt.Before(dates.StartOfDay(*from, loc)) {
			return false
		}
		if to != nil && o.CreatedAt.After(dates.EndOfDay(*to, loc)) {
			return false
		}
		return true
	}
}
