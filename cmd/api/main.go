package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lmorales-dev/vestra-backend/api/routes"
	"github.com/lmorales-dev/vestra-backend/internal/auth"
	"github.com/lmorales-dev/vestra-backend/internal/cart"
	"github.com/lmorales-dev/vestra-backend/internal/catalog"
	"github.com/lmorales-dev/vestra-backend/internal/checkout"
	"github.com/lmorales-dev/vestra-backend/internal/recommendations"
	"github.com/lmorales-dev/vestra-backend/internal/users"
	"github.com/lmorales-dev/vestra-backend/internal/wishlist"
	"github.com/lmorales-dev/vestra-backend/pkg/auth/session"
	"github.com/lmorales-dev/vestra-backend/pkg/config"
	"github.com/lmorales-dev/vestra-backend/pkg/db"
	"github.com/lmorales-dev/vestra-backend/pkg/llm"
	"github.com/lmorales-dev/vestra-backend/pkg/logger"
	"github.com/lmorales-dev/vestra-backend/pkg/metrics"
	"github.com/lmorales-dev/vestra-backend/pkg/migrate"
	"github.com/lmorales-dev/vestra-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		CartRepo:    cartRepo,
		CatalogRepo: catalogRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlist.NewRepository(dbClient.DB()),
		CatalogRepo:  catalogRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		OAuth:    cfg.OAuth,
		JWT:      cfg.JWT,
		Users:    users.NewRepository(dbClient.DB()),
		State:    redisClient,
		Sessions: sessionManager,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		OrderRepo: checkout.NewRepository(dbClient.DB()),
		CartRepo:  cartRepo,
		DBClient:  dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	llmClient, err := llm.New(cfg.LLM)
	if err != nil {
		logg.Error(context.Background(), "failed to create llm client", err)
		os.Exit(1)
	}

	limiter, err := recommendations.NewLimiter(recommendations.NewCounterRepository(dbClient.DB()), cfg.Recommendations)
	if err != nil {
		logg.Error(context.Background(), "failed to create styling limiter", err)
		os.Exit(1)
	}

	recommendationsService, err := recommendations.NewService(recommendations.ServiceParams{
		CatalogRepo: catalogRepo,
		Limiter:     limiter,
		Generator:   llmClient,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create recommendations service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

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
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			Metrics:         httpMetrics,
			Sessions:        sessionManager,
			Auth:            authService,
			Catalog:         catalogService,
			Cart:            cartService,
			Wishlist:        wishlistService,
			Checkout:        checkoutService,
			Recommendations: recommendationsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
