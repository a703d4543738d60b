package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"parcel/internal/app"
	"parcel/internal/config"
	"parcel/internal/gateway"
	"parcel/internal/handler"
	internalRedis "parcel/internal/redis"
	"parcel/internal/repository"
	"parcel/internal/repository/memory"
	"parcel/internal/repository/mongo"
	"parcel/internal/repository/postgres"
	"parcel/internal/service"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.App)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before the store so we can instrument it).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", zap.Error(err))
		} else {
			logger.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	store, closeStore, err := openStore(ctx, cfg, nrApp, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()

	// Redis is optional; without it roles are always read from the store.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// Wire dependencies.
	server, err := wireServer(store, redisClient, nrApp, cfg, logger)
	if err != nil {
		logger.Fatal("failed to wire server", zap.Error(err))
	}

	// Start server in goroutine.
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	logger.Info("Server exited")
}

// recordStore is what the services need from a store driver.
type recordStore interface {
	repository.TxRunner
	Stores() repository.Stores
}

// openStore connects the configured driver and prepares its schema.
func openStore(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application, logger *zap.Logger) (recordStore, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := app.NewMongoClient(ctx, cfg.Mongo, nrApp)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }

		store := mongo.NewStore(client, cfg.Mongo.Database, cfg.Mongo.Transactions)
		if err := store.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		logger.Info("Connected to MongoDB", zap.String("database", cfg.Mongo.Database), zap.Bool("transactions", cfg.Mongo.Transactions))
		return store, closeFn, nil

	case config.DriverPostgres:
		db, err := app.NewDatabase(ctx, cfg.Postgres, nrApp)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = db.Close() }

		store := postgres.NewStore(db)
		if err := store.Migrate(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		logger.Info("Connected to PostgreSQL")
		return store, closeFn, nil

	case config.DriverMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(store recordStore, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, logger *zap.Logger) (*http.Server, error) {
	stores := store.Stores()

	// Initialize Redis stores. The interfaces stay nil without a client.
	var roleCache internalRedis.RoleCacheInterface
	var lockStore internalRedis.LockStoreInterface
	if redisClient != nil {
		roleCache = internalRedis.NewCacheStore(redisClient)
		lockStore = internalRedis.NewLockStore(redisClient)
	}

	var paymentGateway service.PaymentGateway = gateway.Disabled{}
	if cfg.Stripe.SecretKey != "" {
		paymentGateway = gateway.NewStripeGateway(cfg.Stripe.SecretKey)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set; payment intents are disabled")
	}

	// Initialize services.
	notificationService := service.NewNotificationService(logger.Named("notification"))
	userService := service.NewUserService(stores.Users, roleCache, lockStore, logger.Named("users"))
	parcelService := service.NewParcelService(stores.Parcels)
	paymentService := service.NewPaymentService(stores.Payments, store, paymentGateway, notificationService)
	riderService := service.NewRiderService(stores.Riders, store, roleCache, notificationService, logger.Named("riders"))

	// Create router.
	router, err := app.NewRouter(app.RouterDeps{
		UserHandler:    handler.NewUserHandler(userService, logger),
		ParcelHandler:  handler.NewParcelHandler(parcelService, logger),
		PaymentHandler: handler.NewPaymentHandler(paymentService, logger),
		RiderHandler:   handler.NewRiderHandler(riderService, logger),
		Logger:         logger,
		NewRelicApp:    nrApp,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		StoreDriver:    cfg.Store.Driver,
	})
	if err != nil {
		return nil, err
	}

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
