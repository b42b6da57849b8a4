package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/internal/branding"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/notifications"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	pkgredis "github.com/angelmondragon/storefront/pkg/redis"
	"github.com/angelmondragon/storefront/pkg/session"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	metricsHandler http.Handler,
	identity *session.Identity,
	idempotencyStore pkgredis.IdempotencyStore,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkout.Service,
	ordersService orders.Service,
	notificationsService notifications.Service,
	brandingCache *branding.Cache,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	cookieOpts := session.CookieOptions{
		MaxAge: cfg.Session.CookieMaxAge,
		Secure: cfg.Session.CookieSecure,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(identity, cookieOpts, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/session", controllers.SessionShow())

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(catalogService, logg))
			r.Get("/images", controllers.ProductImages(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartShow(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Put("/items/{productId}", controllers.CartSetItem(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutPlace(checkoutService, logg))
			r.Post("/quote", controllers.CheckoutQuote(checkoutService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/{orderId}", controllers.OrderShow(ordersService, logg))
			r.Post("/{orderId}/status", controllers.OrderTransition(ordersService, logg))
		})

		r.Post("/notifications/order-confirmation", controllers.NotificationsOrderConfirmation(notificationsService, logg))
		r.Get("/branding/logo", controllers.BrandingLogo(brandingCache, logg))
	})

	return r
}
