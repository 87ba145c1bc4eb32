// main.go

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"connectfarma-backend/internal/cart"
	"connectfarma-backend/internal/config"
	"connectfarma-backend/internal/events"
	"connectfarma-backend/internal/handler"
	"connectfarma-backend/internal/service"
	"connectfarma-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.Close(context.Background())

	redisClient, err := cart.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	carts := cart.NewRedisStore(redisClient, cart.RedisStoreOptions{TTL: cfg.CartTTL, Logger: logger})

	var publisher events.Publisher = events.Nop{}
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		producer := events.NewKafkaProducer(brokers, cfg.KafkaTopic, logger)
		defer producer.Close()
		publisher = producer
	} else {
		logger.Info("KAFKA_BROKERS not set, domain events disabled")
	}

	svc, err := buildServices(cfg, service.Deps{
		Store:  st,
		Carts:  carts,
		Events: publisher,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("Failed to build services", zap.Error(err))
	}

	if cfg.AdminEmail != "" {
		if err := svc.Accounts.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Fatal("Failed to bootstrap admin account", zap.Error(err))
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.RequestID())
	r.Use(handler.Logger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
	}))
	handler.New(svc, handler.NewTokens(cfg.JWTSecret, cfg.TokenTTL), logger).Routes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("port", cfg.Port),
			zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("Using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil
	}
	logger.Info("Connecting to MongoDB", zap.String("database", cfg.MongoDatabase))
	ms, err := store.ConnectMongo(ctx, cfg.MongoURI(), cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	return ms, nil
}

func buildServices(cfg *config.Config, deps service.Deps) (handler.Services, error) {
	rate, err := cfg.Commission()
	if err != nil {
		return handler.Services{}, err
	}
	fee, err := cfg.Fee()
	if err != nil {
		return handler.Services{}, err
	}

	var svc handler.Services
	if svc.Accounts, err = service.NewAccountService(deps, 0); err != nil {
		return handler.Services{}, err
	}
	if svc.Catalog, err = service.NewCatalogService(deps); err != nil {
		return handler.Services{}, err
	}
	if svc.Orders, err = service.NewOrderService(deps, fee); err != nil {
		return handler.Services{}, err
	}
	if svc.Delivery, err = service.NewDeliveryService(deps); err != nil {
		return handler.Services{}, err
	}
	if svc.Farmers, err = service.NewFarmerService(deps, cfg.LowStockThreshold); err != nil {
		return handler.Services{}, err
	}
	if svc.Payouts, err = service.NewPayoutService(deps, rate); err != nil {
		return handler.Services{}, err
	}
	return svc, nil
}
