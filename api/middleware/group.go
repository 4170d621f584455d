package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/coopfood/coopconsole/api/responses"
	pkgerrors "github.com/coopfood/coopconsole/pkg/errors"
	"github.com/coopfood/coopconsole/pkg/logger"
)

// GroupParam is the chi URL parameter carrying the consumer group.
const GroupParam = "groupId"

// GroupContext scopes every nested route to the consumer group in the URL.
func GroupContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			groupID := strings.TrimSpace(chi.URLParam(r, GroupParam))
			if groupID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "consumer group required"))
				return
			}
			ctx := WithGroupID(r.Context(), groupID)
			if logg != nil {
				ctx = logg.WithGroupID(ctx, groupID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
