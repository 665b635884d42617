package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/ec-shop/internal/api"
	"github.com/example/ec-shop/internal/api/middleware"
	"github.com/example/ec-shop/internal/auth"
	"github.com/example/ec-shop/internal/cache"
	"github.com/example/ec-shop/internal/checkout"
	"github.com/example/ec-shop/internal/config"
	"github.com/example/ec-shop/internal/domain/cart"
	"github.com/example/ec-shop/internal/domain/order"
	"github.com/example/ec-shop/internal/domain/product"
	"github.com/example/ec-shop/internal/domain/user"
	"github.com/example/ec-shop/internal/infrastructure/kafka"
	"github.com/example/ec-shop/internal/infrastructure/store"
	"github.com/example/ec-shop/internal/payment/stripe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	if err := store.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	db, err := store.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	logger.Info().Msg("connected to postgres")

	userStore := store.NewUserStore(db)
	productStore := store.NewProductStore(db)
	cartStore := store.NewCartStore(db)
	orderStore := store.NewOrderStore(db)

	var productCache product.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		productCache = cache.NewProductCache(rdb, logger)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("product cache enabled")
	}

	userSvc := user.NewService(userStore)
	productSvc := product.NewService(productStore, productCache)
	cartSvc := cart.NewService(cartStore, productStore, userSvc)
	orderSvc := order.NewService(orderStore)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	gateway := stripe.NewClient(cfg.StripeAPIKey, cfg.StripeAPIBaseURL)

	var opts []checkout.Option
	if brokers := cfg.BrokerList(); len(brokers) > 0 {
		producer := kafka.NewProducer(brokers, cfg.KafkaTopic)
		defer producer.Close()
		opts = append(opts, checkout.WithPublisher(producer))
		logger.Info().Strs("brokers", brokers).Str("topic", cfg.KafkaTopic).Msg("order event publishing enabled")
	}
	orchestrator := checkout.NewOrchestrator(
		userSvc, cartSvc, gateway, orderStore,
		cfg.Currency, cfg.StripeWebhookSecret,
		logger, opts...,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := api.NewRouter(api.RouterConfig{
		Auth:     api.NewAuthHandlers(userSvc, tokens),
		Products: api.NewProductHandlers(productSvc),
		Carts:    api.NewCartHandlers(cartSvc),
		Orders:   api.NewOrderHandlers(orderSvc),
		Payments: api.NewPaymentHandlers(orchestrator, cfg.AppBaseURL),
		Tokens:   tokens,
		Logger:   logger,
		Registry: registry,
		Limiter:  middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("server started")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
