package baskets

import (
	"net/http"
	"time"

	"github.com/coopfood/coopconsole/api/middleware"
	"github.com/coopfood/coopconsole/api/responses"
	"github.com/coopfood/coopconsole/api/validators"
	internalbaskets "github.com/coopfood/coopconsole/internal/baskets"
	pkgerrors "github.com/coopfood/coopconsole/pkg/errors"
	"github.com/coopfood/coopconsole/pkg/logger"
)

type itemToggleResponse struct {
	OrderID    string `json:"order_id"`
	ItemID     string `json:"item_id"`
	IsPrepared bool   `json:"is_prepared"`
}

// Tree returns the period → article → leaf basket tree for the group.
func Tree(svc internalbaskets.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "baskets service unavailable"))
			return
		}
		criteria := validators.ParseCriteria(r, loc)
		tree, err := svc.Tree(r.Context(), middleware.GroupIDFromContext(r.Context()), criteria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tree)
	}
}

// ToggleItem sets the prepared flag of a single line item.
func ToggleItem(svc internalbaskets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "baskets service unavailable"))
			return
		}
		orderID, itemID, err := itemParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		checked, err := validators.DecodeToggle(w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ToggleItem(r.Context(), middleware.GroupIDFromContext(r.Context()), orderID, itemID, checked); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, itemToggleResponse{OrderID: orderID, ItemID: itemID, IsPrepared: checked})
	}
}

// ToggleArticle sets the flag on every leaf of the article still visible under the query filters.
func ToggleArticle(svc internalbaskets.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "baskets service unavailable"))
			return
		}
		articleID, err := validators.RequiredPathParam(r, "articleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		criteria := validators.ParseCriteria(r, loc)
		checked, err := validators.DecodeToggle(w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ToggleArticle(r.Context(), middleware.GroupIDFromContext(r.Context()), validators.PathPeriodID(r), articleID, checked, criteria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// TogglePeriod sets the flag on every item of the period, ignoring any filter.
func TogglePeriod(svc internalbaskets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "baskets service unavailable"))
			return
		}
		checked, err := validators.DecodeToggle(w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.TogglePeriod(r.Context(), middleware.GroupIDFromContext(r.Context()), validators.PathPeriodID(r), checked)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// DeleteItem removes a line item and answers with the rebuilt tree.
func DeleteItem(svc internalbaskets.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "baskets service unavailable"))
			return
		}
		orderID, itemID, err := itemParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		criteria := validators.ParseCriteria(r, loc)
		tree, err := svc.DeleteItem(r.Context(), middleware.GroupIDFromContext(r.Context()), orderID, itemID, criteria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tree)
	}
}

func itemParams(r *http.Request) (string, string, error) {
	orderID, err := validators.RequiredPathParam(r, "orderId")
	if err != nil {
		return "", "", err
	}
	itemID, err := validators.RequiredPathParam(r, "itemId")
	if err != nil {
		return "", "", err
	}
	return orderID, itemID, nil
}
