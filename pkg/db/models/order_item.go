package models

import (
	"time"

	"github.com/coopfood/coopconsole/pkg/types"
)

// OrderItem is one article line inside an order. Legacy rows carry no PeriodID
// and are placed by the parent order's creation date.
type OrderItem struct {
	ID           string       `gorm:"column:id;primaryKey" json:"id,omitempty"`
	OrderID      string       `gorm:"column:order_id;index;not null" json:"orderId,omitempty"`
	ArticleID    string       `gorm:"column:article_id;not null" json:"articleId"`
	Article      *Article     `gorm:"foreignKey:ArticleID;references:ID" json:"article,omitempty"`
	Quantity     types.Number `gorm:"column:quantity;not null;default:0" json:"quantity"`
	PricePerUnit types.Number `gorm:"column:price_per_unit;not null;default:0" json:"pricePerUnit"`
	TotalPrice   types.Number `gorm:"column:total_price;not null;default:0" json:"totalPrice"`
	PaidAmount   types.Number `gorm:"column:paid_amount;not null;default:0" json:"paidAmount"`
	PeriodID     *string      `gorm:"column:period_id;index" json:"periodId,omitempty"`
	IsPrepared   bool         `gorm:"column:is_prepared;not null;default:false" json:"isPrepared"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt    time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// ArticleName renders the embedded article snapshot, or "Article <id>" without one.
func (i OrderItem) ArticleName() string {
	if name := i.Article.DisplayName(); name != "" {
		return name
	}
	return "Article " + i.ArticleID
}

// UnitMeasure is empty when the item carries no article snapshot.
func (i OrderItem) UnitMeasure() string {
	if i.Article == nil {
		return ""
	}
	return i.Article.UnitMeasure
}
