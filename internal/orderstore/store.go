package orderstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/coopfood/coopconsole/pkg/db"
	"github.com/coopfood/coopconsole/pkg/db/models"
	pkgerrors "github.com/coopfood/coopconsole/pkg/errors"
	"gorm.io/gorm"
)

// Store is the order store the engine talks to: it loads snapshots and applies
// the mutation commands, each in its own transaction.
type Store struct {
	repo Repository
	tx   txRunner
}

// NewStore builds a Store with the required dependencies.
func NewStore(repo Repository, tx txRunner) (*Store, error) {
	if repo == nil {
		return nil, fmt.Errorf("order store repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &Store{repo: repo, tx: tx}, nil
}

// LoadSnapshot fetches the group's orders and periods.
func (s *Store) LoadSnapshot(ctx context.Context, groupID string) (*Snapshot, error) {
	if strings.TrimSpace(groupID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "consumer group id is required")
	}
	orders, err := s.repo.ListOrders(ctx, groupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	periods, err := s.repo.ListPeriods(ctx, groupID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list periods")
	}
	return &Snapshot{Orders: orders, Periods: periods}, nil
}

// SetItemsPaid settles (or clears) the targeted items and re-derives each
// order's paid amount and status, in one transaction.
func (s *Store) SetItemsPaid(ctx context.Context, groupID string, targets []PaymentTarget, paid bool) error {
	if err := validateTargets(targets); err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ids := targetOrderIDs(targets)
		orders, err := repo.FindOrders(ctx, groupID, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders")
		}
		if len(orders) != len(ids) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
				WithDetails(map[string]any{"expected": len(ids), "found": len(orders)})
		}
		byID := make(map[string]*models.Order, len(orders))
		for i := range orders {
			byID[orders[i].ID] = &orders[i]
		}
		for _, target := range targets {
			order := byID[target.OrderID]
			if _, err := applyPayment(order, target, paid); err != nil {
				return err
			}
			itemIDs := target.ItemIDs
			if target.Whole {
				itemIDs = nil
			}
			if err := repo.UpdateItemsPaid(ctx, order.ID, itemIDs, paid); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item payments")
			}
			if err := repo.UpdateOrderPayment(ctx, order.ID, order.PaidAmount, order.PaymentStatus); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order payment")
			}
		}
		return nil
	})
}

// SetItemPrepared flips the preparation flag of one line item.
func (s *Store) SetItemPrepared(ctx context.Context, groupID, orderID, itemID string, prepared bool) error {
	if orderID == "" || itemID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id and item id are required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := s.repo.WithTx(tx).UpdateItemPrepared(ctx, groupID, orderID, itemID, prepared)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item preparation")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		return nil
	})
}

// DeleteItem removes a line item; the order goes too when it was its last item.
func (s *Store) DeleteItem(ctx context.Context, groupID, orderID, itemID string) (bool, error) {
	if orderID == "" || itemID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "order id and item id are required")
	}
	orderRemoved := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindItem(ctx, groupID, orderID, itemID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order item")
		}
		if err := repo.DeleteItem(ctx, orderID, itemID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order item")
		}
		remaining, err := repo.CountItems(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count order items")
		}
		if remaining == 0 {
			if err := repo.DeleteOrder(ctx, orderID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete empty order")
			}
			orderRemoved = true
			return nil
		}
		if err := repo.RecalculateOrderTotal(ctx, orderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recalculate order total")
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return orderRemoved, nil
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
