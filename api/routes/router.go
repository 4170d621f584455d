package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coopfood/coopconsole/api/controllers"
	basketcontrollers "github.com/coopfood/coopconsole/api/controllers/baskets"
	paymentcontrollers "github.com/coopfood/coopconsole/api/controllers/payments"
	"github.com/coopfood/coopconsole/api/middleware"
	"github.com/coopfood/coopconsole/internal/baskets"
	"github.com/coopfood/coopconsole/internal/payments"
	"github.com/coopfood/coopconsole/pkg/config"
	"github.com/coopfood/coopconsole/pkg/db"
	"github.com/coopfood/coopconsole/pkg/logger"
	"github.com/coopfood/coopconsole/pkg/metrics"
	"github.com/coopfood/coopconsole/pkg/redis"
)

// Dependencies groups what the router hands to controllers. Redis and Gatherer are optional.
type Dependencies struct {
	DB       db.Pinger
	Redis    *redis.Client
	Payments payments.Service
	Baskets  baskets.Service
	Gatherer prometheus.Gatherer
	HTTP     *metrics.HTTPMetrics
	Location *time.Location
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTP),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}

	// a nil *redis.Client must not reach the middleware as a non-nil interface
	var idempotencyStore redis.IdempotencyStore
	var redisPinger controllers.Pinger
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
		redisPinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/groups/{"+middleware.GroupParam+"}", func(r chi.Router) {
		r.Use(middleware.GroupContext(logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/payments", func(r chi.Router) {
			r.Get("/periods", paymentcontrollers.Periods(deps.Payments, loc, logg))
			r.Get("/periods/{periodId}", paymentcontrollers.Period(deps.Payments, loc, logg))
			r.Post("/periods/{periodId}/buyers/{buyerId}/paid", paymentcontrollers.MarkPaid(deps.Payments, logg))
			r.Post("/periods/{periodId}/buyers/{buyerId}/unpaid", paymentcontrollers.MarkUnpaid(deps.Payments, logg))
			r.Get("/overview", paymentcontrollers.Overview(deps.Payments, loc, logg))
			r.Get("/buyers", paymentcontrollers.Buyers(deps.Payments, loc, logg))
		})

		r.Route("/baskets", func(r chi.Router) {
			r.Get("/", basketcontrollers.Tree(deps.Baskets, loc, logg))
			r.Post("/orders/{orderId}/items/{itemId}/toggle", basketcontrollers.ToggleItem(deps.Baskets, logg))
			r.Delete("/orders/{orderId}/items/{itemId}", basketcontrollers.DeleteItem(deps.Baskets, loc, logg))
			r.Post("/periods/{periodId}/toggle", basketcontrollers.TogglePeriod(deps.Baskets, logg))
			r.Post("/periods/{periodId}/articles/{articleId}/toggle", basketcontrollers.ToggleArticle(deps.Baskets, loc, logg))
		})
	})

	return r
}
