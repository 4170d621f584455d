package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coopfood/coopconsole/internal/buyers"
	"github.com/coopfood/coopconsole/internal/filters"
	"github.com/coopfood/coopconsole/internal/orderstore"
	"github.com/coopfood/coopconsole/internal/periods"
	"github.com/coopfood/coopconsole/pkg/db/models"
	pkgerrors "github.com/coopfood/coopconsole/pkg/errors"
	"github.com/coopfood/coopconsole/pkg/logger"
	"github.com/coopfood/coopconsole/pkg/metrics"
)

// Store is the order store surface the payment views need.
type Store interface {
	LoadSnapshot(ctx context.Context, groupID string) (*orderstore.Snapshot, error)
	SetItemsPaid(ctx context.Context, groupID string, targets []orderstore.PaymentTarget, paid bool) error
}

// Service serves the payment screens. Every call works on a fresh snapshot.
type Service interface {
	ByPeriodList(ctx context.Context, groupID string, criteria filters.Criteria) ([]PeriodPaymentSummary, error)
	PeriodSummary(ctx context.Context, groupID, periodID string, criteria filters.Criteria) (*PeriodPaymentSummary, error)
	Overview(ctx context.Context, groupID string, criteria filters.Criteria) (*OverviewReport, error)
	ByBuyer(ctx context.Context, groupID string, criteria filters.Criteria) ([]AggregatedUserPayment, error)
	MarkAsPaid(ctx context.Context, groupID, periodID, buyerRef string) (*PeriodPaymentSummary, error)
	MarkAsUnpaid(ctx context.Context, groupID, periodID, buyerRef string) (*PeriodPaymentSummary, error)
}

type service struct {
	store   Store
	logg    *logger.Logger
	metrics *metrics.EngineMetrics
	opts    []Option
	now     func() time.Time
}

// NewService builds the payments service with the required dependencies.
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
		now:     buildOptions(opts).now,
	}, nil
}

// view is one snapshot narrowed by the criteria, ready to aggregate.
type view struct {
	orders  []models.Order
	periods []models.Period
	opts    []Option
	agg     *Aggregator
}

func (s *service) load(ctx context.Context, groupID string, criteria filters.Criteria) (*view, error) {
	snap, err := s.store.LoadSnapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	resolver := buyers.NewResolver(snap.Orders)
	orders := snap.Orders
	if !criteria.IsZero() {
		if criteria.Location == nil {
			criteria.Location = buildOptions(s.opts).loc
		}
		orders = filters.New(criteria, resolver).Orders(snap.Orders)
	}
	opts := append(append([]Option{}, s.opts...), WithBuyers(resolver))
	agg := NewAggregator(orders, snap.Periods, opts...)
	if overlaps := agg.Periods().Overlaps(); len(overlaps) > 0 {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"consumer_group_id": groupID,
			"overlaps":          overlaps,
		}), "overlapping periods; items placed by date go to the first listed period")
	}
	return &view{orders: orders, periods: snap.Periods, opts: opts, agg: agg}, nil
}

func (s *service) ByPeriodList(ctx context.Context, groupID string, criteria filters.Criteria) ([]PeriodPaymentSummary, error) {
	start := time.Now()
	v, err := s.load(ctx, groupID, criteria)
	if err != nil {
		return nil, err
	}
	out := v.agg.SummarizeAll()
	s.metrics.ObserveRecompute("payments_periods", time.Since(start))
	return out, nil
}

func (s *service) PeriodSummary(ctx context.Context, groupID, periodID string, criteria filters.Criteria) (*PeriodPaymentSummary, error) {
	start := time.Now()
	v, err := s.load(ctx, groupID, criteria)
	if err != nil {
		return nil, err
	}
	if !knownPeriod(v.agg, periodID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "period not found")
	}
	summary := v.agg.SummarizePeriod(periodID)
	s.metrics.ObserveRecompute("payments_period", time.Since(start))
	return &summary, nil
}

func (s *service) Overview(ctx context.Context, groupID string, criteria filters.Criteria) (*OverviewReport, error) {
	start := time.Now()
	v, err := s.load(ctx, groupID, criteria)
	if err != nil {
		return nil, err
	}
	report := Overview(v.orders, v.periods, s.now(), v.opts...)
	s.metrics.ObserveRecompute("payments_overview", time.Since(start))
	return &report, nil
}

func (s *service) ByBuyer(ctx context.Context, groupID string, criteria filters.Criteria) ([]AggregatedUserPayment, error) {
	start := time.Now()
	v, err := s.load(ctx, groupID, criteria)
	if err != nil {
		return nil, err
	}
	out := SummarizeByBuyer(v.agg.SummarizeAll(), s.opts...)
	s.metrics.ObserveRecompute("payments_buyers", time.Since(start))
	return out, nil
}

func (s *service) MarkAsPaid(ctx context.Context, groupID, periodID, buyerRef string) (*PeriodPaymentSummary, error) {
	return s.setPaid(ctx, groupID, periodID, buyerRef, true)
}

func (s *service) MarkAsUnpaid(ctx context.Context, groupID, periodID, buyerRef string) (*PeriodPaymentSummary, error) {
	return s.setPaid(ctx, groupID, periodID, buyerRef, false)
}

// setPaid resolves the buyer's items in the period from a fresh snapshot,
// hands them to the store, and summarizes again from a new snapshot. Items of
// the same orders in other periods are left alone.
func (s *service) setPaid(ctx context.Context, groupID, periodID, buyerRef string, paid bool) (*PeriodPaymentSummary, error) {
	command := "mark_unpaid"
	if paid {
		command = "mark_paid"
	}
	if strings.TrimSpace(buyerRef) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id is required")
	}
	ctx = s.logg.WithPeriodID(s.logg.WithGroupID(ctx, groupID), periodID)

	v, err := s.load(ctx, groupID, filters.Criteria{})
	if err != nil {
		return nil, err
	}
	if !knownPeriod(v.agg, periodID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "period not found")
	}
	key := v.agg.Buyers().KeyFor(buyerRef)
	ctx = s.logg.WithBuyer(ctx, key)

	if _, ok := v.agg.SummarizePeriod(periodID).User(key); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "buyer has no orders in this period")
	}
	targets := v.agg.PaymentTargets(periodID, key)
	if len(targets) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer orders carry no ids and cannot be updated")
	}

	if err := s.store.SetItemsPaid(ctx, groupID, targets, paid); err != nil {
		s.metrics.IncCommandFailure(command)
		s.logg.Error(ctx, "payment command failed", err)
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"command":   command,
		"targets":   targets,
	}), "payment state updated")

	return s.PeriodSummary(ctx, groupID, periodID, filters.Criteria{})
}

// knownPeriod accepts the no-period bucket alongside the snapshot's periods.
func knownPeriod(agg *Aggregator, periodID string) bool {
	return periodID == periods.NoPeriodID || agg.Periods().Lookup(periodID) != nil
}
