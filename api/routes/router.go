package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oceannemj/site-web-JKM/api/controllers"
	ordercontrollers "github.com/oceannemj/site-web-JKM/api/controllers/orders"
	"github.com/oceannemj/site-web-JKM/api/middleware"
	"github.com/oceannemj/site-web-JKM/internal/dashboard"
	"github.com/oceannemj/site-web-JKM/internal/orders"
	"github.com/oceannemj/site-web-JKM/internal/stock"
	"github.com/oceannemj/site-web-JKM/pkg/config"
	"github.com/oceannemj/site-web-JKM/pkg/enums"
	"github.com/oceannemj/site-web-JKM/pkg/logger"
	"github.com/oceannemj/site-web-JKM/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Redis and Metrics are
// optional.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        controllers.Pinger
	Redis     *redis.Client
	Metrics   prometheus.Gatherer
	Orders    orders.Service
	Stock     stock.Service
	Dashboard dashboard.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	// A nil *redis.Client must not leak into the interfaces below.
	var idempotencyStore redis.IdempotencyStore
	ready := map[string]controllers.Pinger{"db": deps.DB, "redis": nil}
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
		ready["redis"] = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, ready, logg))
	})

	if deps.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.MemberRoleAdmin))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordercontrollers.Create(deps.Orders, logg))
			r.Get("/", ordercontrollers.List(deps.Orders, logg))
			r.Get("/benefits", ordercontrollers.Benefits(deps.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(deps.Orders, logg))
			r.Put("/{orderId}", ordercontrollers.Update(deps.Orders, logg))
			r.Delete("/{orderId}", ordercontrollers.Delete(deps.Orders, logg))
		})

		r.Route("/products/{productId}", func(r chi.Router) {
			r.Put("/stock", controllers.SetProductStock(deps.Stock, logg))
			r.Get("/movements", controllers.ProductStockMovements(deps.Stock, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", controllers.DashboardStats(deps.Dashboard, logg))
			r.Get("/notifications", controllers.DashboardNotifications(deps.Dashboard, logg))
		})
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Post("/checkout", ordercontrollers.Checkout(deps.Orders, logg))
		r.Get("/me", ordercontrollers.Mine(deps.Orders, logg))
	})

	return r
}
