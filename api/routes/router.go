package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emilianovazquez/pedilo-backend/api/controllers"
	webhookcontrollers "github.com/emilianovazquez/pedilo-backend/api/controllers/webhooks"
	"github.com/emilianovazquez/pedilo-backend/api/middleware"
	cartsvc "github.com/emilianovazquez/pedilo-backend/internal/cart"
	"github.com/emilianovazquez/pedilo-backend/internal/catalog"
	checkoutsvc "github.com/emilianovazquez/pedilo-backend/internal/checkout"
	couponsvc "github.com/emilianovazquez/pedilo-backend/internal/coupons"
	"github.com/emilianovazquez/pedilo-backend/internal/customers"
	"github.com/emilianovazquez/pedilo-backend/internal/orders"
	registrationsvc "github.com/emilianovazquez/pedilo-backend/internal/registration"
	storesvc "github.com/emilianovazquez/pedilo-backend/internal/stores"
	mpwebhook "github.com/emilianovazquez/pedilo-backend/internal/webhooks/mercadopago"
	whatsappsvc "github.com/emilianovazquez/pedilo-backend/internal/whatsapp"
	"github.com/emilianovazquez/pedilo-backend/pkg/config"
	"github.com/emilianovazquez/pedilo-backend/pkg/db"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
	"github.com/emilianovazquez/pedilo-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        redis.Pinger
	Catalog      catalog.Service
	Cart         cartsvc.Service
	Checkout     checkoutsvc.Service
	Orders       orders.Service
	OrderFeed    orders.Feed
	Customers    customers.Service
	Stores       storesvc.Service
	StoreRepo    storesvc.StoreRepository
	Coupons      couponsvc.Service
	WhatsApp     whatsappsvc.Service
	Registration registrationsvc.Service
	MPWebhook    mpwebhook.Service
	RateLimiter  middleware.RateLimiterStore
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	registrationLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("registration", time.Hour, cfg.RateLimit.RegistrationPerHour),
		p.RateLimiter, logg,
	)
	checkoutLimit := middleware.RateLimit(
		middleware.NewRateLimitPolicy("checkout", time.Minute, cfg.RateLimit.CheckoutPerMinute),
		p.RateLimiter, logg,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(registrationLimit).Post("/registration/checkout", controllers.RegisterStore(p.Registration, logg))
		r.Post("/webhooks/mercadopago", webhookcontrollers.MercadoPagoWebhook(p.MPWebhook, logg))

		r.Route("/menu/{slug}", func(r chi.Router) {
			r.Get("/", controllers.PublicMenu(p.Catalog, logg))
			r.Get("/status", controllers.PublicMenuStatus(p.StoreRepo, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(p.Cart, logg))
				r.Post("/items", controllers.AddCartItem(p.Cart, logg))
				r.Patch("/items", controllers.UpdateCartItem(p.Cart, logg))
				r.Delete("/", controllers.ClearCart(p.Cart, logg))
			})

			r.With(checkoutLimit).Post("/checkout", controllers.SubmitCheckout(p.Checkout, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStore(logg))

				r.Route("/store", func(r chi.Router) {
					r.Get("/", controllers.AdminGetStore(p.Stores, logg))
					r.Patch("/", controllers.AdminUpdateStore(p.Stores, logg))
					r.Post("/zones", controllers.AdminCreateZone(p.Stores, logg))
					r.Put("/zones/{zoneID}", controllers.AdminUpdateZone(p.Stores, logg))
					r.Delete("/zones/{zoneID}", controllers.AdminDeleteZone(p.Stores, logg))
				})

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.AdminListProducts(p.Catalog, logg))
					r.Post("/", controllers.AdminCreateProduct(p.Catalog, logg))
					r.Patch("/{productID}", controllers.AdminUpdateProduct(p.Catalog, logg))
					r.Delete("/{productID}", controllers.AdminDeleteProduct(p.Catalog, logg))
					r.Put("/{productID}/discounts", controllers.AdminUpsertDiscount(p.Catalog, logg))
					r.Delete("/{productID}/discounts/{discountID}", controllers.AdminDeleteDiscount(p.Catalog, logg))
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.AdminListOrders(p.Orders, logg))
					r.Get("/feed", controllers.AdminOrderFeed(p.OrderFeed, logg))
					r.Post("/archive", controllers.AdminArchiveOrders(p.Orders, logg))
					r.Get("/{orderID}", controllers.AdminGetOrder(p.Orders, logg))
					r.Post("/{orderID}/paid", controllers.AdminMarkOrderPaid(p.Orders, logg))
				})

				r.Get("/customers", controllers.AdminListCustomers(p.Customers, logg))

				r.Route("/whatsapp", func(r chi.Router) {
					r.Post("/connect", controllers.AdminConnectWhatsApp(p.WhatsApp, logg))
					r.Delete("/", controllers.AdminDisconnectWhatsApp(p.WhatsApp, logg))
					r.Get("/status", controllers.AdminWhatsAppStatus(p.WhatsApp, logg))
				})

				r.Post("/coupons/apply", controllers.AdminApplyCoupon(p.Coupons, logg))
			})

			r.Route("/operator/coupons", func(r chi.Router) {
				r.Use(middleware.RequireOperator(logg))
				r.Get("/", controllers.OperatorListCoupons(p.Coupons, logg))
				r.Post("/", controllers.OperatorCreateCoupon(p.Coupons, logg))
				r.Patch("/{couponID}/active", controllers.OperatorSetCouponActive(p.Coupons, logg))
			})
		})
	})

	return r
}
