package orderstore

import (
	"context"

	"github.com/coopfood/coopconsole/pkg/db/models"
	"github.com/coopfood/coopconsole/pkg/enums"
	"github.com/coopfood/coopconsole/pkg/types"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders, items, and periods.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListOrders(ctx context.Context, groupID string) ([]models.Order, error)
	ListPeriods(ctx context.Context, groupID string) ([]models.Period, error)
	FindOrders(ctx context.Context, groupID string, orderIDs []string) ([]models.Order, error)
	UpdateItemsPaid(ctx context.Context, orderID string, itemIDs []string, paid bool) error
	UpdateOrderPayment(ctx context.Context, orderID string, paidAmount types.Number, status enums.PaymentStatus) error
	UpdateItemPrepared(ctx context.Context, groupID, orderID, itemID string, prepared bool) (int64, error)
	FindItem(ctx context.Context, groupID, orderID, itemID string) (*models.OrderItem, error)
	DeleteItem(ctx context.Context, orderID, itemID string) error
	CountItems(ctx context.Context, orderID string) (int64, error)
	RecalculateOrderTotal(ctx context.Context, orderID string) error
	DeleteOrder(ctx context.Context, orderID string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
