package models

import (
	"time"

	"github.com/coopfood/coopconsole/pkg/enums"
	"github.com/coopfood/coopconsole/pkg/types"
)

// Order is one buyer's purchase inside a consumer group. Buyer identity may be
// an id, an email (legacy records), or both.
type Order struct {
	ID              string              `gorm:"column:id;primaryKey" json:"id"`
	BuyerID         string              `gorm:"column:buyer_id;index" json:"buyerId,omitempty"`
	BuyerEmail      string              `gorm:"column:buyer_email" json:"buyerEmail,omitempty"`
	BuyerName       string              `gorm:"column:buyer_name" json:"buyerName,omitempty"`
	ConsumerGroupID string              `gorm:"column:consumer_group_id;index;not null" json:"consumerGroupId"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount     types.Number        `gorm:"column:total_amount;not null;default:0" json:"totalAmount"`
	PaidAmount      types.Number        `gorm:"column:paid_amount;not null;default:0" json:"paidAmount"`
	TransportCost   types.Number        `gorm:"column:transport_cost;not null;default:0" json:"transportCost"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;not null;default:'UNPAID'" json:"paymentStatus"`
	IsDelivered     bool                `gorm:"column:is_delivered;not null;default:false" json:"isDelivered"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
