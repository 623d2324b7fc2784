package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shadowgallery/shadowgallery-backend/api/controllers"
	"github.com/shadowgallery/shadowgallery-backend/api/middleware"
	authsvc "github.com/shadowgallery/shadowgallery-backend/internal/auth"
	cartsvc "github.com/shadowgallery/shadowgallery-backend/internal/cart"
	catalogsvc "github.com/shadowgallery/shadowgallery-backend/internal/catalog"
	checkoutsvc "github.com/shadowgallery/shadowgallery-backend/internal/checkout"
	discountsvc "github.com/shadowgallery/shadowgallery-backend/internal/discounts"
	mediasvc "github.com/shadowgallery/shadowgallery-backend/internal/media"
	ordersvc "github.com/shadowgallery/shadowgallery-backend/internal/orders"
	reviewsvc "github.com/shadowgallery/shadowgallery-backend/internal/reviews"
	wishlistsvc "github.com/shadowgallery/shadowgallery-backend/internal/wishlist"
	"github.com/shadowgallery/shadowgallery-backend/pkg/auth/session"
	"github.com/shadowgallery/shadowgallery-backend/pkg/config"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db"
	"github.com/shadowgallery/shadowgallery-backend/pkg/logger"
	"github.com/shadowgallery/shadowgallery-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth     authsvc.Service
	Catalog  catalogsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Wishlist wishlistsvc.Service
	Reviews  reviewsvc.Service
	Discount discountsvc.Service
	Media    mediasvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database *db.Client,
	redisClient *redis.Client,
	sessions *session.Manager,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	resetPolicy := middleware.NewAuthRateLimitPolicy(
		"reset",
		cfg.AuthRateLimit.ResetWindow,
		cfg.AuthRateLimit.ResetIPLimit,
		cfg.AuthRateLimit.ResetEmailLimit,
	)

	// Mounted inline on each guarded route; the rules match the fully
	// resolved route pattern.
	idempotency := middleware.Idempotency(cfg.Checkout, redisClient, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, redisClient, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg), idempotency).
			Post("/register", controllers.Register(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.Login(svcs.Auth, logg))
		r.Post("/refresh", controllers.Refresh(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).
			Post("/logout", controllers.Logout(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(resetPolicy, redisClient, logg)).
			Post("/password-reset", controllers.RequestPasswordReset(svcs.Auth, logg))
		r.Post("/password-reset/confirm", controllers.ResetPassword(svcs.Auth, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AdminLogin(svcs.Auth, logg))
	})

	// Storefront surface. Guests browse and carry carts; auth is optional so
	// signed-in users get their orders partitioned under their account.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, sessions, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Catalog, logg))
			r.Get("/{productID}", controllers.GetProduct(svcs.Catalog, logg))
			r.Get("/{productID}/reviews", controllers.ListProductReviews(svcs.Reviews, logg))
			r.Post("/{productID}/reviews", controllers.CreateProductReview(svcs.Reviews, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartToken(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svcs.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
				r.Delete("/items", controllers.CartRemoveItem(svcs.Cart, logg))
				r.Put("/items", controllers.CartSetQuantity(svcs.Cart, logg))
				r.Patch("/items", controllers.CartAdjustQuantity(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
				r.Post("/discount", controllers.CartApplyDiscount(svcs.Cart, logg))
				r.Delete("/discount", controllers.CartRemoveDiscount(svcs.Cart, logg))
			})

			r.With(idempotency).
				Post("/checkout", controllers.Checkout(svcs.Checkout, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))

			r.Route("/me", func(r chi.Router) {
				r.Get("/", controllers.GetProfile(svcs.Auth, logg))
				r.Put("/", controllers.UpdateProfile(svcs.Auth, logg))
				r.Put("/email", controllers.UpdateEmail(svcs.Auth, logg))
				r.Put("/password", controllers.UpdatePassword(svcs.Auth, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListMyOrders(svcs.Orders, logg))
				r.Get("/{orderID}", controllers.GetMyOrder(svcs.Orders, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(svcs.Wishlist, logg))
				r.Put("/{productID}", controllers.WishlistAdd(svcs.Wishlist, logg))
				r.Delete("/{productID}", controllers.WishlistRemove(svcs.Wishlist, logg))
			})
		})
	})

	// Back office.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(svcs.Catalog, logg))
			r.Post("/", controllers.AdminCreateProduct(svcs.Catalog, logg))
			r.Put("/{productID}", controllers.AdminUpdateProduct(svcs.Catalog, logg))
			r.Delete("/{productID}", controllers.AdminDeleteProduct(svcs.Catalog, logg))
		})

		r.Route("/discounts", func(r chi.Router) {
			r.Get("/", controllers.AdminListDiscounts(svcs.Discount, logg))
			r.Post("/", controllers.AdminCreateDiscount(svcs.Discount, logg))
			r.Delete("/{discountID}", controllers.AdminDeleteDiscount(svcs.Discount, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.AdminGetOrder(svcs.Orders, logg))
			r.Put("/{orderID}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.AdminListReviews(svcs.Reviews, logg))
			r.Delete("/{reviewID}", controllers.AdminDeleteReview(svcs.Reviews, logg))
		})

		r.Route("/media", func(r chi.Router) {
			r.With(idempotency).
				Post("/images", controllers.AdminUploadImage(svcs.Media, logg))
			r.Delete("/images", controllers.AdminDeleteImage(svcs.Media, logg))
		})
	})

	return r
}
