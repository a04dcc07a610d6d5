package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/emilianovazquez/pedilo-backend/api/routes"
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
	"github.com/emilianovazquez/pedilo-backend/pkg/mailer"
	"github.com/emilianovazquez/pedilo-backend/pkg/mercadopago"
	"github.com/emilianovazquez/pedilo-backend/pkg/metrics"
	"github.com/emilianovazquez/pedilo-backend/pkg/migrate"
	"github.com/emilianovazquez/pedilo-backend/pkg/redis"
	"github.com/emilianovazquez/pedilo-backend/pkg/wabridge"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	mpClient, err := mercadopago.NewClient(cfg.MercadoPago.AccessToken)
	if err != nil {
		logg.Error(context.Background(), "failed to create mercadopago client", err)
		os.Exit(1)
	}

	bridgeClient, err := wabridge.NewClient(cfg.WhatsApp.BridgeURL, cfg.WhatsApp.BridgeKey)
	if err != nil {
		logg.Error(context.Background(), "failed to create whatsapp bridge client", err)
		os.Exit(1)
	}

	storeRepo := storesvc.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	customerRepo := customers.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	couponRepo := couponsvc.NewRepository(dbClient.DB())

	orderFeed, err := orders.NewRedisFeed(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order feed", err)
		os.Exit(1)
	}

	cartStore := cartsvc.NewStore()

	catalogService, err := catalog.NewService(catalogRepo, storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartStore, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(
		dbClient,
		storeRepo,
		customerRepo,
		orderRepo,
		cartStore,
		orderFeed,
		metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo, dbClient, orderFeed)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	customerService, err := customers.NewService(customerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	storeService, err := storesvc.NewService(storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	couponService, err := couponsvc.NewService(dbClient, couponRepo, storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	whatsappService, err := whatsappsvc.NewService(bridgeClient, storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create whatsapp service", err)
		os.Exit(1)
	}

	registrationService, err := registrationsvc.NewService(
		dbClient,
		storeRepo,
		couponService,
		mailer.New(cfg.Mail),
		mpClient,
		cfg.Trial,
		cfg.MercadoPago,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create registration service", err)
		os.Exit(1)
	}

	webhookService, err := mpwebhook.NewService(mpClient, storeRepo, redisClient, cfg.Trial, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.RouterParams{
		Config:       cfg,
		Logger:       logg,
		DB:           dbClient,
		Redis:        redisClient,
		Catalog:      catalogService,
		Cart:         cartService,
		Checkout:     checkoutService,
		Orders:       orderService,
		OrderFeed:    orderFeed,
		Customers:    customerService,
		Stores:       storeService,
		StoreRepo:    storeRepo,
		Coupons:      couponService,
		WhatsApp:     whatsappService,
		Registration: registrationService,
		MPWebhook:    webhookService,
		RateLimiter:  redisClient,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
