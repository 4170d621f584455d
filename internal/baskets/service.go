package baskets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coopfood/coopconsole/internal/buyers"
	"github.com/coopfood/coopconsole/internal/filters"
	"github.com/coopfood/coopconsole/internal/orderstore"
	"github.com/coopfood/coopconsole/internal/periods"
	pkgerrors "github.com/coopfood/coopconsole/pkg/errors"
	"github.com/coopfood/coopconsole/pkg/logger"
	"github.com/coopfood/coopconsole/pkg/metrics"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Store is the order store surface basket preparation needs.
type Store interface {
	LoadSnapshot(ctx context.Context, groupID string) (*orderstore.Snapshot, error)
	SetItemPrepared(ctx context.Context, groupID, orderID, itemID string, prepared bool) error
	DeleteItem(ctx context.Context, groupID, orderID, itemID string) (bool, error)
}

// Service serves the basket-preparation screen.
type Service interface {
	Tree(ctx context.Context, groupID string, criteria filters.Criteria) ([]PeriodBasket, error)
	ToggleItem(ctx context.Context, groupID, orderID, itemID string, checked bool) error
	ToggleArticle(ctx context.Context, groupID, periodID, articleID string, checked bool, criteria filters.Criteria) (*BulkResult, error)
	TogglePeriod(ctx context.Context, groupID, periodID string, checked bool) (*BulkResult, error)
	DeleteItem(ctx context.Context, groupID, orderID, itemID string, criteria filters.Criteria) ([]PeriodBasket, error)
}

// Failure is one leaf a bulk toggle could not write.
type Failure struct {
	OrderID string         `json:"order_id"`
	ItemID  string         `json:"item_id"`
	Code    pkgerrors.Code `json:"code"`
	Error   string         `json:"error"`
}

// BulkResult counts the outcome of a bulk toggle. Succeeded writes are not
// rolled back when others fail.
type BulkResult struct {
	Attempted int       `json:"attempted"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures"`
}

type service struct {
	store   Store
	logg    *logger.Logger
	metrics *metrics.EngineMetrics
	opts    []Option
	cfg     options
}

// NewService builds the basket service with the required dependencies.
func NewService(store Store, logg *logger.Logger, m *metrics.EngineMetrics, opts ...Option) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("order store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:   store,
		logg:    logg,
		metrics: m,
		opts:    opts,
		cfg:     buildOptions(opts),
	}, nil
}

func (s *service) Tree(ctx context.Context, groupID string, criteria filters.Criteria) ([]PeriodBasket, error) {
	snap, err := s.store.LoadSnapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.build(snap, criteria), nil
}

func (s *service) build(snap *orderstore.Snapshot, criteria filters.Criteria) []PeriodBasket {
	start := time.Now()
	opts := append(append([]Option{}, s.opts...), WithBuyers(buyers.NewResolver(snap.Orders)))
	tree := BuildTree(snap.Orders, snap.Periods, criteria, opts...)
	s.metrics.ObserveRecompute("basket_tree", time.Since(start))
	return tree
}

func (s *service) ToggleItem(ctx context.Context, groupID, orderID, itemID string, checked bool) error {
	if strings.TrimSpace(orderID) == "" || strings.TrimSpace(itemID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id and item id are required")
	}
	if err := s.store.SetItemPrepared(ctx, groupID, orderID, itemID, checked); err != nil {
		s.metrics.IncCommandFailure("toggle_item")
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{"order_id": orderID, "item_id": itemID}), "toggle item failed", err)
		return err
	}
	return nil
}

func (s *service) ToggleArticle(ctx context.Context, groupID, periodID, articleID string, checked bool, criteria filters.Criteria) (*BulkResult, error) {
	snap, err := s.store.LoadSnapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	targets, ok := ArticleTargets(s.build(snap, criteria), periodID, articleID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "article not found in period")
	}
	ctx = s.logg.WithPeriodID(s.logg.WithGroupID(ctx, groupID), periodID)
	return s.toggleAll(ctx, groupID, "article", targets, checked)
}

func (s *service) TogglePeriod(ctx context.Context, groupID, periodID string, checked bool) (*BulkResult, error) {
	snap, err := s.store.LoadSnapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	resolver := periods.NewResolver(snap.Periods, s.cfg.loc)
	if periodID != periods.NoPeriodID && resolver.Lookup(periodID) == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "period not found")
	}
	targets := PeriodTargets(snap.Orders, resolver, periodID)
	if len(targets) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "period has no items")
	}
	ctx = s.logg.WithPeriodID(s.logg.WithGroupID(ctx, groupID), periodID)
	return s.toggleAll(ctx, groupID, "period", targets, checked)
}

// toggleAll writes every target concurrently, bounded by the configured
// concurrency. Each write is independent; failures are collected, not retried.
func (s *service) toggleAll(ctx context.Context, groupID, scope string, targets []Target, checked bool) (*BulkResult, error) {
	errs := make([]error, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.concurrency)
	for i, target := range targets {
		g.Go(func() error {
			if target.OrderID == "" || target.ItemID == "" {
				errs[i] = pkgerrors.New(pkgerrors.CodeValidation, "line item has no id")
				return nil
			}
			errs[i] = s.store.SetItemPrepared(gctx, groupID, target.OrderID, target.ItemID, checked)
			return nil
		})
	}
	_ = g.Wait()

	result := &BulkResult{Attempted: len(targets), Failures: []Failure{}}
	var combined error
	for i, err := range errs {
		if err == nil {
			result.Succeeded++
			continue
		}
		result.Failed++
		result.Failures = append(result.Failures, Failure{
			OrderID: targets[i].OrderID,
			ItemID:  targets[i].ItemID,
			Code:    pkgerrors.CodeOf(err),
			Error:   err.Error(),
		})
		combined = multierr.Append(combined, err)
	}
	s.metrics.AddBulkOutcome(scope, result.Succeeded, result.Failed)

	fields := map[string]any{
		"scope":     scope,
		"checked":   checked,
		"attempted": result.Attempted,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	}
	if combined == nil {
		s.logg.Info(s.logg.WithFields(ctx, fields), "bulk toggle applied")
		return result, nil
	}

	s.metrics.IncCommandFailure("toggle_" + scope)
	s.logg.Error(s.logg.WithFields(ctx, fields), "bulk toggle incomplete", combined)
	details := map[string]any{
		"attempted": result.Attempted,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"failures":  result.Failures,
	}
	if result.Succeeded > 0 {
		return result, pkgerrors.Wrap(pkgerrors.CodePartial, combined, "some items could not be updated").WithDetails(details)
	}
	return result, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "no item could be updated").WithDetails(details)
}

// DeleteItem removes the line item through the store, then drops it from the
// snapshot it was loaded from and returns the rebuilt tree.
func (s *service) DeleteItem(ctx context.Context, groupID, orderID, itemID string, criteria filters.Criteria) ([]PeriodBasket, error) {
	if strings.TrimSpace(orderID) == "" || strings.TrimSpace(itemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and item id are required")
	}
	snap, err := s.store.LoadSnapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithFields(s.logg.WithGroupID(ctx, groupID), map[string]any{"order_id": orderID, "item_id": itemID})

	orderRemoved, err := s.store.DeleteItem(ctx, groupID, orderID, itemID)
	if err != nil {
		s.metrics.IncCommandFailure("delete_item")
		s.logg.Error(ctx, "delete item failed", err)
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "order_removed", orderRemoved), "line item deleted")

	snap.Orders = RemoveItem(snap.Orders, orderID, itemID)
	return s.build(snap, criteria), nil
}
