package baskets

import (
	"github.com/coopfood/coopconsole/internal/buyers"
	"github.com/coopfood/coopconsole/internal/filters"
	"github.com/coopfood/coopconsole/internal/periods"
	"github.com/coopfood/coopconsole/pkg/collation"
	"github.com/coopfood/coopconsole/pkg/db/models"
)

// Leaf is one line item under an article. The same buyer may own several leaves.
type Leaf struct {
	OrderID    string  `json:"order_id"`
	ItemID     string  `json:"item_id"`
	BuyerID    string  `json:"buyer_id"`
	BuyerName  string  `json:"buyer_name"`
	Quantity   float64 `json:"quantity"`
	IsPrepared bool    `json:"is_prepared"`
}

// Target addresses the line item behind the leaf.
func (l Leaf) Target() Target {
	return Target{OrderID: l.OrderID, ItemID: l.ItemID}
}

// BasketItem groups the leaves of one article inside a period.
type BasketItem struct {
	ArticleID     string  `json:"article_id"`
	ArticleName   string  `json:"article_name"`
	UnitMeasure   string  `json:"unit_measure,omitempty"`
	TotalQuantity float64 `json:"total_quantity"`
	IsPrepared    bool    `json:"is_prepared"`
	Leaves        []Leaf  `json:"leaves"`
}

// PeriodBasket is one period of the preparation tree. Period is nil for the
// no-period bucket.
type PeriodBasket struct {
	PeriodID     string         `json:"period_id"`
	PeriodName   string         `json:"period_name"`
	SupplierName string         `json:"supplier_name"`
	Period       *models.Period `json:"period,omitempty"`
	IsFinished   bool           `json:"is_finished"`
	IsPrepared   bool           `json:"is_prepared"`
	Articles     []BasketItem   `json:"articles"`
}

// Article looks up an article of the period by id.
func (p PeriodBasket) Article(articleID string) (BasketItem, bool) {
	for _, a := range p.Articles {
		if a.ArticleID == articleID {
			return a, true
		}
	}
	return BasketItem{}, false
}

// FindPeriod looks up a period of the tree by id.
func FindPeriod(tree []PeriodBasket, periodID string) (PeriodBasket, bool) {
	for _, p := range tree {
		if p.PeriodID == periodID {
			return p, true
		}
	}
	return PeriodBasket{}, false
}

// BuildTree groups the filtered line items into period, article, and leaf
// levels. Articles and periods left without leaves are not returned. The
// source orders are never modified.
func BuildTree(orders []models.Order, periodList []models.Period, criteria filters.Criteria, opts ...Option) []PeriodBasket {
	o := buildOptions(opts)
	identities := o.buyers
	if identities == nil {
		identities = buyers.NewResolver(orders)
	}
	resolver := periods.NewResolver(periodList, o.loc)
	if criteria.Location == nil {
		criteria.Location = o.loc
	}
	now := o.now()

	type periodAcc struct {
		basket   *PeriodBasket
		articles map[string]*BasketItem
		order    []string
	}
	byPeriod := map[string]*periodAcc{}
	var periodOrder []string

	for _, ref := range filters.New(criteria, identities).Items(orders) {
		period := resolver.Resolve(*ref.Order, *ref.Item)
		periodID := periods.NoPeriodID
		if period != nil {
			periodID = period.ID
		}
		acc, ok := byPeriod[periodID]
		if !ok {
			acc = &periodAcc{
				basket: &PeriodBasket{
					PeriodID:     periodID,
					PeriodName:   periods.DisplayName(period),
					SupplierName: periods.SupplierName(period),
					Period:       period,
				},
				articles: map[string]*BasketItem{},
			}
			if period != nil {
				acc.basket.IsFinished = periods.IsFinished(*period, now)
			}
			byPeriod[periodID] = acc
			periodOrder = append(periodOrder, periodID)
		}

		article, ok := acc.articles[ref.Item.ArticleID]
		if !ok {
			article = &BasketItem{
				ArticleID:   ref.Item.ArticleID,
				ArticleName: ref.Item.ArticleName(),
				UnitMeasure: ref.Item.UnitMeasure(),
			}
			acc.articles[ref.Item.ArticleID] = article
			acc.order = append(acc.order, ref.Item.ArticleID)
		}

		identity := identities.Resolve(*ref.Order)
		leaf := Leaf{
			OrderID:    ref.Order.ID,
			ItemID:     ref.Item.ID,
			BuyerID:    identity.Key,
			BuyerName:  identity.Name,
			Quantity:   ref.Item.Quantity.Float64(),
			IsPrepared: ref.Item.IsPrepared,
		}
		article.Leaves = append(article.Leaves, leaf)
		article.TotalQuantity += leaf.Quantity
	}

	sorter := collation.New(o.locale)
	tree := make([]PeriodBasket, 0, len(periodOrder))
	for _, periodID := range periodOrder {
		acc := byPeriod[periodID]
		basket := acc.basket
		basket.Articles = make([]BasketItem, 0, len(acc.order))
		for _, articleID := range acc.order {
			article := acc.articles[articleID]
			article.IsPrepared = AllPrepared(article.Leaves)
			basket.Articles = append(basket.Articles, *article)
		}
		collation.SortStable(sorter, basket.Articles, func(a BasketItem) string { return a.ArticleName })
		basket.IsPrepared = PeriodPrepared(orders, resolver, periodID)
		tree = append(tree, *basket)
	}

	collation.SortStable(sorter, tree, func(p PeriodBasket) string { return p.PeriodName })
	active := make([]PeriodBasket, 0, len(tree))
	finished := make([]PeriodBasket, 0, len(tree))
	for _, p := range tree {
		if p.IsFinished {
			finished = append(finished, p)
		} else {
			active = append(active, p)
		}
	}
	return append(active, finished...)
}
