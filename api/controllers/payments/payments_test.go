package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coopfood/coopconsole/api/middleware"
	"github.com/coopfood/coopconsole/internal/filters"
	internalpayments "github.com/coopfood/coopconsole/internal/payments"
	"github.com/coopfood/coopconsole/pkg/enums"
	pkgerrors "github.com/coopfood/coopconsole/pkg/errors"
)

type stubService struct {
	groupID  string
	periodID string
	buyerRef string
	paid     *bool
	criteria filters.Criteria
	err      error
}

func (s *stubService) ByPeriodList(ctx context.Context, groupID string, criteria filters.Criteria) ([]internalpayments.PeriodPaymentSummary, error) {
	s.groupID, s.criteria = groupID, criteria
	return []internalpayments.PeriodPaymentSummary{{PeriodID: "P1", PeriodName: "Setmana 1"}}, s.err
}

func (s *stubService) PeriodSummary(ctx context.Context, groupID, periodID string, criteria filters.Criteria) (*internalpayments.PeriodPaymentSummary, error) {
	s.groupID, s.periodID, s.criteria = groupID, periodID, criteria
	if s.err != nil {
		return nil, s.err
	}
	return &internalpayments.PeriodPaymentSummary{PeriodID: periodID}, nil
}

func (s *stubService) Overview(ctx context.Context, groupID string, criteria filters.Criteria) (*internalpayments.OverviewReport, error) {
	s.groupID = groupID
	return &internalpayments.OverviewReport{GrandTotal: 37}, s.err
}

func (s *stubService) ByBuyer(ctx context.Context, groupID string, criteria filters.Criteria) ([]internalpayments.AggregatedUserPayment, error) {
	s.groupID = groupID
	return []internalpayments.AggregatedUserPayment{}, s.err
}

func (s *stubService) MarkAsPaid(ctx context.Context, groupID, periodID, buyerRef string) (*internalpayments.PeriodPaymentSummary, error) {
	return s.mark(groupID, periodID, buyerRef, true)
}

func (s *stubService) MarkAsUnpaid(ctx context.Context, groupID, periodID, buyerRef string) (*internalpayments.PeriodPaymentSummary, error) {
	return s.mark(groupID, periodID, buyerRef, false)
}

func (s *stubService) mark(groupID, periodID, buyerRef string, paid bool) (*internalpayments.PeriodPaymentSummary, error) {
	s.groupID, s.periodID, s.buyerRef, s.paid = groupID, periodID, buyerRef, &paid
	if s.err != nil {
		return nil, s.err
	}
	return &internalpayments.PeriodPaymentSummary{PeriodID: periodID}, nil
}

func newTestRouter(svc internalpayments.Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1/groups/{groupId}/payments", func(r chi.Router) {
		r.Use(middleware.GroupContext(nil))
		r.Get("/periods", Periods(svc, time.UTC, nil))
		r.Get("/periods/{periodId}", Period(svc, time.UTC, nil))
		r.Get("/overview", Overview(svc, time.UTC, nil))
		r.Get("/buyers", Buyers(svc, time.UTC, nil))
		r.Post("/periods/{periodId}/buyers/{buyerId}/paid", MarkPaid(svc, nil))
		r.Post("/periods/{periodId}/buyers/{buyerId}/unpaid", MarkUnpaid(svc, nil))
	})
	return r
}

func TestPeriodsPassesGroupAndCriteria(t *testing.T) {
	svc := &stubService{}
	resp := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/groups/g1/payments/periods?delivered=delivered&buyer=anna", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.groupID != "g1" {
		t.Fatalf("expected group g1, got %q", svc.groupID)
	}
	if svc.criteria.Delivered != enums.DeliveredStateDelivered || svc.criteria.BuyerText != "anna" {
		t.Fatalf("unexpected criteria %+v", svc.criteria)
	}

	var envelope struct {
		Data []internalpayments.PeriodPaymentSummary `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].PeriodID != "P1" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestPeriodNoneMapsToNoPeriodBucket(t *testing.T) {
	svc := &stubService{}
	resp := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/groups/g1/payments/periods/none", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.periodID != "" {
		t.Fatalf("expected empty period id, got %q", svc.periodID)
	}
}

func TestPeriodsIgnoresUnknownFilterValues(t *testing.T) {
	svc := &stubService{}
	resp := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/groups/g1/payments/periods?from=soon&delivered=maybe&prepared=xyz", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.groupID != "g1" || !svc.criteria.IsZero() {
		t.Fatalf("expected the service called with no-op criteria, got %q %+v", svc.groupID, svc.criteria)
	}
}

func TestMarkPaidAndUnpaid(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/groups/g1/payments/periods/P1/buyers/anna@example.com/paid", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.paid == nil || !*svc.paid || svc.buyerRef != "anna@example.com" || svc.periodID != "P1" {
		t.Fatalf("unexpected mark call paid=%v buyer=%q period=%q", svc.paid, svc.buyerRef, svc.periodID)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/groups/g1/payments/periods/P1/buyers/u1/unpaid", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.paid == nil || *svc.paid {
		t.Fatal("expected unpaid call")
	}
}

func TestMarkPaidNotFound(t *testing.T) {
	svc := &stubService{err: pkgerrors.New(pkgerrors.CodeNotFound, "buyer has no orders in period")}
	resp := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/groups/g1/payments/periods/P1/buyers/ghost/paid", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestNilServiceIsInternal(t *testing.T) {
	resp := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/groups/g1/payments/overview", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
