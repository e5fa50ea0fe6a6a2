package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/r-mccarty/opticworks-store-sub001/internal/analytics"
	"github.com/r-mccarty/opticworks-store-sub001/internal/api"
	"github.com/r-mccarty/opticworks-store-sub001/internal/cart"
	"github.com/r-mccarty/opticworks-store-sub001/internal/checkout"
	"github.com/r-mccarty/opticworks-store-sub001/internal/clients"
	"github.com/r-mccarty/opticworks-store-sub001/internal/config"
	"github.com/r-mccarty/opticworks-store-sub001/internal/db"
	"github.com/r-mccarty/opticworks-store-sub001/internal/email"
	"github.com/r-mccarty/opticworks-store-sub001/internal/events"
	"github.com/r-mccarty/opticworks-store-sub001/internal/inventory"
	"github.com/r-mccarty/opticworks-store-sub001/internal/order"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.Lshortfile)

	httpClient := &http.Client{Timeout: cfg.VendorTimeout}
	stripeClient := clients.NewStripeClient(clients.NewClient("stripe", cfg.StripeBaseURL, httpClient), cfg.StripeSecretKey)
	easypostClient := clients.NewEasyPostClient(clients.NewClient("easypost", cfg.EasyPostBaseURL, httpClient), cfg.EasyPostAPIKey)
	resendClient := clients.NewResendClient(clients.NewClient("resend", cfg.ResendBaseURL, httpClient), cfg.ResendAPIKey, cfg.FromEmail)

	// Orders: Postgres when a DSN is configured, in-memory otherwise.
	var orderRepo order.Repository = order.NewMemoryRepository()
	if cfg.OrderDBDSN != "" {
		if err := db.RunMigrations(cfg.OrderDBDSN, logger); err != nil {
			logger.Fatalf("run migrations: %v", err)
		}
		database, err := db.Open(cfg.OrderDBDSN)
		if err != nil {
			logger.Fatalf("open order db: %v", err)
		}
		defer database.Close()
		orderRepo = order.NewRepository(database)
	}

	mailer, err := email.NewService(resendClient, cfg.Production(), logger)
	if err != nil {
		logger.Fatalf("email templates: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Events: rabbit when configured, otherwise payment outcomes are
	// recorded but no notification is queued.
	var publisher checkout.EventPublisher = checkout.NoopPublisher{}
	if cfg.RabbitURL != "" {
		rabbitConn := events.MustDialRabbit(cfg.RabbitURL)
		defer rabbitConn.Close()

		rabbitPublisher, err := events.NewPublisher(rabbitConn)
		if err != nil {
			logger.Fatalf("create publisher: %v", err)
		}
		defer rabbitPublisher.Close()
		publisher = rabbitPublisher

		if err := events.StartEmailConsumer(ctx, rabbitConn, mailer, logger); err != nil {
			logger.Fatalf("start email consumer: %v", err)
		}
	}

	checkoutSvc := checkout.NewService(stripeClient, orderRepo, publisher, logger)

	// Inventory: Postgres when a DSN is configured, seeded in-memory otherwise.
	var inventoryRepo inventory.Repository = inventory.NewMemoryRepository(inventory.CatalogSeed())
	if cfg.InventoryDBDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.InventoryDBDSN)
		if err != nil {
			logger.Fatalf("open inventory db: %v", err)
		}
		defer pool.Close()
		if err := inventory.EnsureSchema(ctx, pool, inventory.CatalogSeed()); err != nil {
			logger.Fatalf("inventory schema: %v", err)
		}
		inventoryRepo = inventory.NewPostgresRepository(pool)
	}
	inventorySvc := inventory.NewService(inventoryRepo)
	analyticsStore := analytics.NewStore(analytics.DefaultCapacity)

	handler := api.NewRouter(api.Deps{
		Logger:           logger,
		Checkout:         checkoutSvc,
		Carts:            cart.NewSessions(),
		Email:            mailer,
		Inventory:        inventorySvc,
		Analytics:        analyticsStore,
		EasyPost:         easypostClient,
		WebhookSecret:    cfg.StripeWebhookSecret,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(handler, "storefront"),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("storefront listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
}
