package payments

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/coopfood/coopconsole/internal/filters"
	"github.com/coopfood/coopconsole/internal/orderstore"
	"github.com/coopfood/coopconsole/internal/periods"
	"github.com/coopfood/coopconsole/pkg/db/models"
	"github.com/coopfood/coopconsole/pkg/enums"
	pkgerrors "github.com/coopfood/coopconsole/pkg/errors"
	"github.com/coopfood/coopconsole/pkg/logger"
)

type stubStore struct {
	orders    []models.Order
	periods   []models.Period
	loads     int
	paidCalls [][]string
	setPaid   func(targets []orderstore.PaymentTarget, paid bool) error
}

func (s *stubStore) LoadSnapshot(ctx context.Context, groupID string) (*orderstore.Snapshot, error) {
	s.loads++
	orders := make([]models.Order, len(s.orders))
	copy(orders, s.orders)
	return &orderstore.Snapshot{Orders: orders, Periods: s.periods}, nil
}

func (s *stubStore) SetItemsPaid(ctx context.Context, groupID string, targets []orderstore.PaymentTarget, paid bool) error {
	orderIDs := make([]string, 0, len(targets))
	for _, t := range targets {
		orderIDs = append(orderIDs, t.OrderID)
	}
	s.paidCalls = append(s.paidCalls, orderIDs)
	if s.setPaid != nil {
		return s.setPaid(targets, paid)
	}
	for i := range s.orders {
		for _, id := range orderIDs {
			if s.orders[i].ID != id {
				continue
			}
			if paid {
				s.orders[i].PaidAmount = s.orders[i].TotalAmount + s.orders[i].TransportCost
			} else {
				s.orders[i].PaidAmount = 0
			}
		}
	}
	return nil
}

func newTestService(t *testing.T, store Store) Service {
	t.Helper()
	svc, err := NewService(store, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}), nil,
		WithClock(func() time.Time { return time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC) }))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func serviceFixture() *stubStore {
	orders := scenarioA()
	orders[0].TotalAmount = 10
	orders[1].TotalAmount = 15
	orders = append(orders, models.Order{
		ID: "o3", BuyerEmail: "bernat@coop.cat", BuyerName: "Bernat", CreatedAt: day(2026, 3, 4), TotalAmount: 8,
		Items: []models.OrderItem{item("i3", 8, 0, "P1")},
	})
	return &stubStore{orders: orders, periods: scenarioPeriods()}
}

func TestNewServiceRequiresDeps(t *testing.T) {
	if _, err := NewService(nil, logger.New(logger.Options{Output: io.Discard}), nil); err == nil {
		t.Fatal("expected missing store to fail")
	}
	if _, err := NewService(&stubStore{}, nil, nil); err == nil {
		t.Fatal("expected missing logger to fail")
	}
}

func TestMarkAsPaidReloadsSummary(t *testing.T) {
	store := serviceFixture()
	svc := newTestService(t, store)

	summary, err := svc.MarkAsPaid(context.Background(), "g1", "P1", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.paidCalls) != 1 || len(store.paidCalls[0]) != 2 {
		t.Fatalf("expected one call with both orders, got %v", store.paidCalls)
	}
	if store.loads != 2 {
		t.Fatalf("expected a reload after the command, got %d loads", store.loads)
	}
	row, ok := summary.User("u1")
	if !ok || row.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected u1 PAID after reload, got %+v", row)
	}
	other, _ := summary.User("email:bernat@coop.cat")
	if other.PaymentStatus != enums.PaymentStatusUnpaid {
		t.Fatalf("expected other buyer untouched, got %s", other.PaymentStatus)
	}

	summary, err = svc.MarkAsUnpaid(context.Background(), "g1", "P1", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row, _ := summary.User("u1"); row.PaymentStatus != enums.PaymentStatusUnpaid {
		t.Fatalf("expected u1 UNPAID, got %s", row.PaymentStatus)
	}
}

func TestMarkAsPaidByEmail(t *testing.T) {
	store := serviceFixture()
	svc := newTestService(t, store)

	if _, err := svc.MarkAsPaid(context.Background(), "g1", "P1", "Bernat@coop.cat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.paidCalls) != 1 || store.paidCalls[0][0] != "o3" {
		t.Fatalf("expected o3 to be settled, got %v", store.paidCalls)
	}
}

func TestMarkAsPaidErrors(t *testing.T) {
	store := serviceFixture()
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.MarkAsPaid(ctx, "g1", "missing", "u1")
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown period, got %v", err)
	}
	_, err = svc.MarkAsPaid(ctx, "g1", "P2", "u1")
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for buyer without orders, got %v", err)
	}
	_, err = svc.MarkAsPaid(ctx, "g1", "P1", " ")
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	store.setPaid = func([]orderstore.PaymentTarget, bool) error {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("db down"), "update payment state")
	}
	_, err = svc.MarkAsPaid(ctx, "g1", "P1", "u1")
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected store failure to propagate, got %v", err)
	}
}

func TestPeriodSummaryAppliesFilters(t *testing.T) {
	svc := newTestService(t, serviceFixture())

	summary, err := svc.PeriodSummary(context.Background(), "g1", "P1", filters.Criteria{BuyerText: "bernat"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Users) != 1 || summary.GrandTotal != 8 {
		t.Fatalf("expected only bernat, got %+v", summary)
	}
}

func TestOverviewUsesClock(t *testing.T) {
	svc := newTestService(t, serviceFixture())

	report, err := svc.Overview(context.Background(), "g1", filters.Criteria{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Suppliers) != 1 || report.GrandTotal != 37 {
		t.Fatalf("unexpected overview %+v", report)
	}
}

func TestByBuyerAndPeriodList(t *testing.T) {
	svc := newTestService(t, serviceFixture())
	ctx := context.Background()

	list, err := svc.ByPeriodList(ctx, "g1", filters.Criteria{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].PeriodID != "P1" {
		t.Fatalf("expected only P1 to have buyers, got %+v", list)
	}

	rows, err := svc.ByBuyer(ctx, "g1", filters.Criteria{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two buyers, got %d", len(rows))
	}
}

func TestNoPeriodBucketIsReachable(t *testing.T) {
	store := orderstore.NewMemoryStore(&orderstore.Snapshot{
		Orders: []models.Order{{
			ID: "o1", BuyerID: "u1", CreatedAt: day(2026, 6, 1), TotalAmount: 6, TransportCost: 1,
			Items: []models.OrderItem{item("i1", 6, 0, "")},
		}},
		Periods: scenarioPeriods(),
	})
	svc := newTestService(t, store)
	ctx := context.Background()

	summary, err := svc.PeriodSummary(ctx, "g1", periods.NoPeriodID, filters.Criteria{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.PeriodName != "No period" || summary.GrandTotal != 7 {
		t.Fatalf("unexpected no-period summary %+v", summary)
	}

	list, err := svc.ByPeriodList(ctx, "g1", filters.Criteria{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].PeriodID != periods.NoPeriodID {
		t.Fatalf("expected the no-period bucket listed, got %+v", list)
	}

	summary, err = svc.MarkAsPaid(ctx, "g1", periods.NoPeriodID, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row, _ := summary.User("u1"); row.PaymentStatus != enums.PaymentStatusPaid || row.PaidAmount != 7 {
		t.Fatalf("expected u1 PAID in the no-period bucket, got %+v", row)
	}
}

func TestMarkAsPaidLeavesOtherPeriodsOfSplitOrder(t *testing.T) {
	store := orderstore.NewMemoryStore(&orderstore.Snapshot{
		Orders: []models.Order{{
			ID: "o1", BuyerID: "u1", CreatedAt: day(2026, 3, 2), TotalAmount: 30, TransportCost: 2,
			Items: []models.OrderItem{item("i1", 10, 0, "P1"), item("i2", 20, 0, "P2")},
		}},
		Periods: scenarioPeriods(),
	})
	svc := newTestService(t, store)
	ctx := context.Background()

	p1, err := svc.MarkAsPaid(ctx, "g1", "P1", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row, _ := p1.User("u1"); row.PaymentStatus != enums.PaymentStatusPaid || row.PaidAmount != 12 {
		t.Fatalf("expected P1 settled with its transport, got %+v", row)
	}

	p2, err := svc.PeriodSummary(ctx, "g1", "P2", filters.Criteria{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row, _ := p2.User("u1"); row.PaymentStatus != enums.PaymentStatusUnpaid || row.PaidAmount != 0 {
		t.Fatalf("expected P2 untouched, got %+v", row)
	}

	snap, err := store.LoadSnapshot(ctx, "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order := snap.Orders[0]
	if order.PaymentStatus != enums.PaymentStatusPartial || order.PaidAmount != 10 {
		t.Fatalf("expected order PARTIAL with 10 paid, got %s %v", order.PaymentStatus, order.PaidAmount)
	}

	if _, err := svc.MarkAsPaid(ctx, "g1", "P2", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap, _ = store.LoadSnapshot(ctx, "g1")
	if order := snap.Orders[0]; order.PaymentStatus != enums.PaymentStatusPaid || order.PaidAmount != 32 {
		t.Fatalf("expected order PAID in full, got %s %v", order.PaymentStatus, order.PaidAmount)
	}

	if _, err := svc.MarkAsUnpaid(ctx, "g1", "P1", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p2, _ = svc.PeriodSummary(ctx, "g1", "P2", filters.Criteria{})
	if row, _ := p2.User("u1"); row.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected P2 to stay PAID after clearing P1, got %+v", row)
	}
}
