package periods

import (
	"testing"
	"time"

	"github.com/coopfood/coopconsole/pkg/db/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func TestResolvePrefersItemPeriod(t *testing.T) {
	list := []models.Period{
		{ID: "p1", StartDate: day(2026, 3, 1), EndDate: day(2026, 3, 7)},
		{ID: "p2", StartDate: day(2026, 3, 8), EndDate: day(2026, 3, 14)},
	}
	r := NewResolver(list, time.UTC)
	order := models.Order{ID: "o1", CreatedAt: day(2026, 3, 2)}

	if got := r.ResolveID(order, models.OrderItem{PeriodID: strPtr("p2")}); got != "p2" {
		t.Fatalf("expected item period p2, got %q", got)
	}
	if got := r.ResolveID(order, models.OrderItem{PeriodID: strPtr("gone")}); got != "p1" {
		t.Fatalf("expected date fallback p1 for unknown period id, got %q", got)
	}
}

func TestResolveDateBoundariesInclusive(t *testing.T) {
	list := []models.Period{{ID: "p1", StartDate: day(2026, 3, 1), EndDate: day(2026, 3, 7)}}
	r := NewResolver(list, time.UTC)

	endOfLastDay := time.Date(2026, 3, 7, 23, 59, 59, 0, time.UTC)
	if got := r.ResolveID(models.Order{CreatedAt: endOfLastDay}, models.OrderItem{}); got != "p1" {
		t.Fatalf("expected last day to be inside the period, got %q", got)
	}
	nextDay := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	if got := r.ResolveID(models.Order{CreatedAt: nextDay}, models.OrderItem{}); got != NoPeriodID {
		t.Fatalf("expected no period, got %q", got)
	}
}

func TestResolveOverlapKeepsListOrder(t *testing.T) {
	list := []models.Period{
		{ID: "late", StartDate: day(2026, 3, 5), EndDate: day(2026, 3, 20)},
		{ID: "early", StartDate: day(2026, 3, 1), EndDate: day(2026, 3, 10)},
		{ID: "apart", StartDate: day(2026, 4, 1), EndDate: day(2026, 4, 10)},
	}
	r := NewResolver(list, time.UTC)

	got := r.ResolveID(models.Order{CreatedAt: day(2026, 3, 6)}, models.OrderItem{})
	if got != "late" {
		t.Fatalf("expected first listed period to win, got %q", got)
	}
	overlaps := r.Overlaps()
	if len(overlaps) != 1 {
		t.Fatalf("expected one overlap, got %d", len(overlaps))
	}
	if overlaps[0].FirstID != "late" || overlaps[0].SecondID != "early" {
		t.Fatalf("unexpected overlap %+v", overlaps[0])
	}
}

func TestResolveHonoursLocation(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	list := []models.Period{{ID: "p1", StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, madrid), EndDate: time.Date(2026, 3, 7, 0, 0, 0, 0, madrid)}}
	r := NewResolver(list, madrid)

	// 23:30 UTC on the 7th is already the 8th in Madrid.
	created := time.Date(2026, 3, 7, 23, 30, 0, 0, time.UTC)
	if got := r.ResolveID(models.Order{CreatedAt: created}, models.OrderItem{}); got != NoPeriodID {
		t.Fatalf("expected no period in Madrid time, got %q", got)
	}
}

func TestFinishedAndDelivered(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p := models.Period{EndDate: day(2026, 3, 9), DeliveryDate: day(2026, 3, 10)}
	if !IsFinished(p, now) {
		t.Fatal("expected period ending yesterday to be finished")
	}
	if !DeliveredBy(p, now, time.UTC) {
		t.Fatal("expected delivery today to count as delivered")
	}
	p.DeliveryDate = day(2026, 3, 11)
	if DeliveredBy(p, now, time.UTC) {
		t.Fatal("expected delivery tomorrow to be excluded")
	}
}

func TestSupplierNamePlaceholder(t *testing.T) {
	if got := SupplierName(&models.Period{ID: "p1"}); got != UnknownSupplier {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if got := SupplierName(&models.Period{Supplier: &models.Supplier{Name: "Hort"}}); got != "Hort" {
		t.Fatalf("expected supplier name, got %q", got)
	}
	if got := DisplayName(nil); got != NoPeriodName {
		t.Fatalf("expected no-period label, got %q", got)
	}
}
