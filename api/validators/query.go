package validators

import (
	"net/http"
	"strings"
	"time"

	"github.com/coopfood/coopconsole/internal/filters"
	"github.com/coopfood/coopconsole/pkg/dates"
	"github.com/coopfood/coopconsole/pkg/enums"
)

const maxQueryText = 200

// Query parameter names understood by ParseCriteria.
const (
	QueryBuyerID   = "buyerId"
	QueryBuyer     = "buyer"
	QueryFrom      = "from"
	QueryTo        = "to"
	QueryDelivered = "delivered"
	QueryPrepared  = "prepared"
	QueryArticle   = "article"
)

// queryDay reads an optional day parameter. Missing or unparseable means nil.
func queryDay(r *http.Request, key string, loc *time.Location) *time.Time {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	day, err := dates.ParseDay(raw, loc)
	if err != nil {
		return nil
	}
	return &day
}

// ParseCriteria turns the list query string into filter criteria. Values it
// does not understand are dropped, and an inverted date range is kept as is
// so it simply matches nothing.
func ParseCriteria(r *http.Request, loc *time.Location) filters.Criteria {
	q := r.URL.Query()
	return filters.Criteria{
		BuyerID:     SanitizeString(q.Get(QueryBuyerID), maxQueryText),
		BuyerText:   SanitizeString(q.Get(QueryBuyer), maxQueryText),
		ArticleText: SanitizeString(q.Get(QueryArticle), maxQueryText),
		DateFrom:    queryDay(r, QueryFrom, loc),
		DateTo:      queryDay(r, QueryTo, loc),
		Delivered:   enums.DeliveredStateOrAll(q.Get(QueryDelivered)),
		Prepared:    enums.PreparedStateOrAll(q.Get(QueryPrepared)),
		Location:    loc,
	}
}
