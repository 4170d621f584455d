package payments

import (
	"net/http"
	"time"

	"github.com/coopfood/coopconsole/api/middleware"
	"github.com/coopfood/coopconsole/api/responses"
	"github.com/coopfood/coopconsole/api/validators"
	internalpayments "github.com/coopfood/coopconsole/internal/payments"
	pkgerrors "github.com/coopfood/coopconsole/pkg/errors"
	"github.com/coopfood/coopconsole/pkg/logger"
)

// Periods lists one payment summary per known period that has buyers.
func Periods(svc internalpayments.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}
		criteria := validators.ParseCriteria(r, loc)
		list, err := svc.ByPeriodList(r.Context(), middleware.GroupIDFromContext(r.Context()), criteria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Period returns the summary of a single period; "none" addresses the no-period bucket.
func Period(svc internalpayments.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}
		criteria := validators.ParseCriteria(r, loc)
		summary, err := svc.PeriodSummary(r.Context(), middleware.GroupIDFromContext(r.Context()), validators.PathPeriodID(r), criteria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// Overview rolls delivered periods up per supplier.
func Overview(svc internalpayments.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}
		criteria := validators.ParseCriteria(r, loc)
		report, err := svc.Overview(r.Context(), middleware.GroupIDFromContext(r.Context()), criteria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// Buyers returns one cross-period row per buyer.
func Buyers(svc internalpayments.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}
		criteria := validators.ParseCriteria(r, loc)
		rows, err := svc.ByBuyer(r.Context(), middleware.GroupIDFromContext(r.Context()), criteria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// MarkPaid flips every order of the buyer in the period to paid and returns the fresh summary.
func MarkPaid(svc internalpayments.Service, logg *logger.Logger) http.HandlerFunc {
	return setPaid(svc, logg, true)
}

// MarkUnpaid reverses MarkPaid.
func MarkUnpaid(svc internalpayments.Service, logg *logger.Logger) http.HandlerFunc {
	return setPaid(svc, logg, false)
}

func setPaid(svc internalpayments.Service, logg *logger.Logger, paid bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}
		buyerRef, err := validators.RequiredPathParam(r, "buyerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groupID := middleware.GroupIDFromContext(r.Context())
		periodID := validators.PathPeriodID(r)
		var summary *internalpayments.PeriodPaymentSummary
		if paid {
			summary, err = svc.MarkAsPaid(r.Context(), groupID, periodID, buyerRef)
		} else {
			summary, err = svc.MarkAsUnpaid(r.Context(), groupID, periodID, buyerRef)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
