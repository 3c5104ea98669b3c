package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anavarro/tillpoint-backend/api/controllers"
	"github.com/anavarro/tillpoint-backend/api/middleware"
	catalogsvc "github.com/anavarro/tillpoint-backend/internal/catalog"
	checkoutsvc "github.com/anavarro/tillpoint-backend/internal/checkout"
	customersvc "github.com/anavarro/tillpoint-backend/internal/customers"
	orderssvc "github.com/anavarro/tillpoint-backend/internal/orders"
	"github.com/anavarro/tillpoint-backend/pkg/config"
	"github.com/anavarro/tillpoint-backend/pkg/logger"
	"github.com/anavarro/tillpoint-backend/pkg/redis"
)

type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	Redis           *redis.Client
	Readiness       map[string]controllers.Pinger
	CatalogService  catalogsvc.Service
	CustomerService customersvc.Service
	CheckoutService checkoutsvc.Service
	OrderService    orderssvc.Service
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, p.Readiness))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(p.Config.JWT, p.Logger))
		r.Use(middleware.Idempotency(p.Redis, p.Logger))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogLookup(p.CatalogService, p.Logger))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomersSearch(p.CustomerService, p.Logger))
			r.Get("/{customerId}/wallet", controllers.CustomerWallet(p.CustomerService, p.Logger))
			r.Get("/{customerId}/orders", controllers.CustomerOrders(p.OrderService, p.Logger))
		})

		r.Route("/pos", func(r chi.Router) {
			r.Post("/quote", controllers.POSQuote(p.CatalogService, p.CustomerService, p.Logger))
			r.Post("/orders", controllers.POSSubmitOrder(p.CatalogService, p.CustomerService, p.CheckoutService, p.Logger))
			r.Get("/orders/{orderId}", controllers.OrderGet(p.OrderService, p.Logger))
		})
	})

	return r
}
