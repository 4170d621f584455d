package validators

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/coopfood/coopconsole/internal/periods"
	pkgerrors "github.com/coopfood/coopconsole/pkg/errors"
)

// NoPeriodSegment addresses the bucket of orders that belong to no period.
const NoPeriodSegment = "none"

// PathPeriodID reads the periodId URL parameter, mapping "none" to the no-period bucket.
func PathPeriodID(r *http.Request) string {
	raw := strings.TrimSpace(chi.URLParam(r, "periodId"))
	if strings.EqualFold(raw, NoPeriodSegment) {
		return periods.NoPeriodID
	}
	return raw
}

// RequiredPathParam reads a URL parameter that must not be blank.
func RequiredPathParam(r *http.Request, key string) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "path parameter required").WithDetails(map[string]any{"field": key})
	}
	return raw, nil
}
