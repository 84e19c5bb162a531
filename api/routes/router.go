package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lmorales-dev/vestra-backend/api/controllers"
	"github.com/lmorales-dev/vestra-backend/api/middleware"
	authsvc "github.com/lmorales-dev/vestra-backend/internal/auth"
	cartsvc "github.com/lmorales-dev/vestra-backend/internal/cart"
	catalogsvc "github.com/lmorales-dev/vestra-backend/internal/catalog"
	checkoutsvc "github.com/lmorales-dev/vestra-backend/internal/checkout"
	recsvc "github.com/lmorales-dev/vestra-backend/internal/recommendations"
	wishlistsvc "github.com/lmorales-dev/vestra-backend/internal/wishlist"
	"github.com/lmorales-dev/vestra-backend/pkg/auth/session"
	"github.com/lmorales-dev/vestra-backend/pkg/config"
	"github.com/lmorales-dev/vestra-backend/pkg/db"
	"github.com/lmorales-dev/vestra-backend/pkg/logger"
	"github.com/lmorales-dev/vestra-backend/pkg/metrics"
	"github.com/lmorales-dev/vestra-backend/pkg/redis"
)

// Deps carries everything the router mounts.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      db.Pinger
	Redis   redis.Pinger
	Metrics *metrics.HTTPMetrics

	Sessions session.AccessSessionChecker

	Auth            authsvc.Service
	Catalog         catalogsvc.Service
	Cart            cartsvc.Service
	Wishlist        wishlistsvc.Service
	Checkout        checkoutsvc.Service
	Recommendations recsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/{provider}", controllers.AuthBegin(deps.Auth, logg))
			r.Get("/{provider}/callback", controllers.AuthCallback(deps.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
				r.Get("/me", controllers.AuthMe(deps.Auth, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.CatalogBrowse(deps.Catalog, logg))
			r.Get("/facets", controllers.CatalogFacets(deps.Catalog, logg))
			r.Get("/{slug}", controllers.CatalogProductDetail(deps.Catalog, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
				r.Post("/{variantId}/outfit", controllers.OutfitRecommendations(deps.Recommendations, logg))
			})
		})
		r.Get("/categories", controllers.CatalogCategories(deps.Catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.Cart, logg))
				r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
				r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.Cart, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Cart, logg))
				r.Delete("/", controllers.CartClear(deps.Cart, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistFetch(deps.Wishlist, logg))
				r.Post("/items", controllers.WishlistAddItem(deps.Wishlist, logg))
				r.Delete("/items/{entryId}", controllers.WishlistRemoveItem(deps.Wishlist, logg))
				r.Delete("/variants/{variantId}", controllers.WishlistRemoveVariant(deps.Wishlist, logg))
			})

			r.Post("/checkout", controllers.CheckoutSubmit(deps.Checkout, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(deps.Checkout, logg))
				r.Get("/{orderId}", controllers.OrderDetail(deps.Checkout, logg))
			})
		})
	})

	return r
}
