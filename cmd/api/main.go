package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/shadowgallery/shadowgallery-backend/api/routes"
	"github.com/shadowgallery/shadowgallery-backend/internal/auth"
	"github.com/shadowgallery/shadowgallery-backend/internal/cart"
	"github.com/shadowgallery/shadowgallery-backend/internal/catalog"
	"github.com/shadowgallery/shadowgallery-backend/internal/checkout"
	"github.com/shadowgallery/shadowgallery-backend/internal/discounts"
	"github.com/shadowgallery/shadowgallery-backend/internal/media"
	"github.com/shadowgallery/shadowgallery-backend/internal/orders"
	"github.com/shadowgallery/shadowgallery-backend/internal/reviews"
	"github.com/shadowgallery/shadowgallery-backend/internal/users"
	"github.com/shadowgallery/shadowgallery-backend/internal/wishlist"
	"github.com/shadowgallery/shadowgallery-backend/pkg/auth/session"
	"github.com/shadowgallery/shadowgallery-backend/pkg/config"
	"github.com/shadowgallery/shadowgallery-backend/pkg/db"
	"github.com/shadowgallery/shadowgallery-backend/pkg/logger"
	"github.com/shadowgallery/shadowgallery-backend/pkg/migrate"
	"github.com/shadowgallery/shadowgallery-backend/pkg/redis"
	"github.com/shadowgallery/shadowgallery-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	discountRepo := discounts.NewRepository(dbClient.DB())

	catalogCache, err := catalog.NewCache(catalogRepo, redisClient, cfg.Catalog.NotifyChannel, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog cache", err)
		os.Exit(1)
	}
	if err := catalogCache.Start(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to warm catalog cache", err)
		os.Exit(1)
	}

	resolver, err := discounts.NewResolver(discountRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount resolver", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewSessionStore(redisClient, cfg.Cart.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		ResetStore:     redisClient,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.Params{
		Repo:   catalogRepo,
		Cache:  catalogCache,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.Params{
		Store:                       cartStore,
		Products:                    catalogRepo,
		Resolver:                    resolver,
		TaxRatePercent:              cfg.Checkout.TaxRatePercent,
		RevokeDiscountOnFailedApply: cfg.Checkout.RevokeDiscountOnFailedApply,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.Params{
		Tx:             dbClient,
		Carts:          cartStore,
		Catalog:        catalogRepo,
		Orders:         ordersRepo,
		Resolver:       resolver,
		TaxRatePercent: cfg.Checkout.TaxRatePercent,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.NewRepository(dbClient.DB()), catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviews.NewRepository(dbClient.DB()), catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	discountService, err := discounts.NewService(discountRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(gcsClient, cfg.GCS, cfg.Media)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, routes.Services{
			Auth:     authService,
			Catalog:  catalogService,
			Cart:     cartService,
			Checkout: checkoutService,
			Orders:   ordersService,
			Wishlist: wishlistService,
			Reviews:  reviewService,
			Discount: discountService,
			Media:    mediaService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
