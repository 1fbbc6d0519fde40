package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saulrivera/medcart-backend/api/controllers"
	"github.com/saulrivera/medcart-backend/api/middleware"
	"github.com/saulrivera/medcart-backend/internal/catalog"
	"github.com/saulrivera/medcart-backend/internal/coupons"
	"github.com/saulrivera/medcart-backend/internal/payments"
	"github.com/saulrivera/medcart-backend/internal/routing"
	"github.com/saulrivera/medcart-backend/internal/subscribers"
	"github.com/saulrivera/medcart-backend/pkg/config"
	"github.com/saulrivera/medcart-backend/pkg/db"
	"github.com/saulrivera/medcart-backend/pkg/logger"
	"github.com/saulrivera/medcart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	catalogService catalog.Service,
	routingService routing.Service,
	couponsService coupons.Service,
	paymentsService payments.Service,
	subscribersService subscribers.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/merchant", func(r chi.Router) {
		r.Use(middleware.MerchantContext(logg))
		if redisClient != nil {
			r.Use(middleware.WriteRateLimit(cfg.RateLimit, redisClient, logg))
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))
			r.Patch("/{productId}", controllers.ProductEdit(catalogService, logg))
			r.Post("/{productId}/reset", controllers.ProductReset(catalogService, logg))
		})

		r.Route("/routing", func(r chi.Router) {
			r.Get("/", controllers.RoutingTable(routingService, logg))
			r.Get("/{state}", controllers.RoutingState(routingService, logg))
			r.Put("/{state}", controllers.RoutingSelect(routingService, logg))
			r.Delete("/{state}", controllers.RoutingReset(routingService, logg))
		})

		r.Route("/pharmacies", func(r chi.Router) {
			r.Get("/", controllers.PharmacyList(routingService, logg))
			r.Post("/", controllers.PharmacyQuickAdd(routingService, logg))
			r.Put("/{pharmacyId}/assignments", controllers.PharmacyAssign(routingService, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.CouponList(couponsService, logg))
			r.Post("/", controllers.CouponCreate(couponsService, logg))
			r.Get("/{couponId}", controllers.CouponDetail(couponsService, logg))
			r.Patch("/{couponId}", controllers.CouponUpdate(couponsService, logg))
			r.Delete("/{couponId}", controllers.CouponDelete(couponsService, logg))
			r.Post("/{couponId}/toggle", controllers.CouponToggle(couponsService, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.TransactionList(paymentsService, logg))
			r.Get("/summary", controllers.TransactionSummary(paymentsService, logg))
			r.Post("/{transactionId}/refund", controllers.TransactionRefund(paymentsService, logg))
		})

		r.Route("/payouts", func(r chi.Router) {
			r.Get("/", controllers.PayoutList(paymentsService, logg))
			r.Post("/{payoutId}/complete", controllers.PayoutComplete(paymentsService, logg))
		})

		r.Route("/subscribers", func(r chi.Router) {
			r.Get("/", controllers.SubscriberList(subscribersService, logg))
			r.Post("/{subscriberId}/account-status", controllers.SubscriberAccountStatus(subscribersService, logg))
		})
	})

	return r
}
