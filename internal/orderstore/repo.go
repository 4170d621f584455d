package orderstore

import (
	"context"

	"github.com/coopfood/coopconsole/pkg/db/models"
	"github.com/coopfood/coopconsole/pkg/enums"
	"github.com/coopfood/coopconsole/pkg/types"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an order store repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListOrders(ctx context.Context, groupID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Items.Article").
		Where("consumer_group_id = ?", groupID).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListPeriods returns the group's periods ordered by start date; that order is
// the tie-break order for items placed by date.
func (r *repository) ListPeriods(ctx context.Context, groupID string) ([]models.Period, error) {
	var periods []models.Period
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("consumer_group_id = ?", groupID).
		Order("start_date ASC, id ASC").
		Find(&periods).Error
	if err != nil {
		return nil, err
	}
	return periods, nil
}

// FindOrders loads the listed orders of the group with their items.
func (r *repository) FindOrders(ctx context.Context, groupID string, orderIDs []string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("consumer_group_id = ? AND id IN ?", groupID, orderIDs).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateItemsPaid sets paid_amount to total_price (or zero) on the order's
// items; an empty itemIDs covers all of them.
func (r *repository) UpdateItemsPaid(ctx context.Context, orderID string, itemIDs []string, paid bool) error {
	amount := any(0)
	if paid {
		amount = gorm.Expr("total_price")
	}
	q := r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("order_id = ?", orderID)
	if len(itemIDs) > 0 {
		q = q.Where("id IN ?", itemIDs)
	}
	return q.Update("paid_amount", amount).Error
}

func (r *repository) UpdateOrderPayment(ctx context.Context, orderID string, paidAmount types.Number, status enums.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"paid_amount":    paidAmount,
			"payment_status": status,
		}).Error
}

func (r *repository) UpdateItemPrepared(ctx context.Context, groupID, orderID, itemID string, prepared bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id = ? AND order_id IN (?)", itemID, r.db.Model(&models.Order{}).Select("id").Where("consumer_group_id = ? AND id = ?", groupID, orderID)).
		Update("is_prepared", prepared)
	return res.RowsAffected, res.Error
}

func (r *repository) FindItem(ctx context.Context, groupID, orderID, itemID string) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.id = ? AND order_items.order_id = ? AND orders.consumer_group_id = ?", itemID, orderID, groupID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) DeleteItem(ctx context.Context, orderID, itemID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Delete(&models.OrderItem{}).Error
}

func (r *repository) CountItems(ctx context.Context, orderID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}

func (r *repository) RecalculateOrderTotal(ctx context.Context, orderID string) error {
	total := r.db.Model(&models.OrderItem{}).Select("COALESCE(SUM(total_price), 0)").Where("order_id = ?", orderID)
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("total_amount", total).Error
}

func (r *repository) DeleteOrder(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", orderID).
		Delete(&models.Order{}).Error
}
